package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthExpiredToken           ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
	ValidationInvalidDate   ErrorCode = "VALIDATION_006"
)

// User error codes (USER_*)
const (
	UserNotFound      ErrorCode = "USER_001"
	UserAlreadyExists ErrorCode = "USER_002"
	UserInvalidID     ErrorCode = "USER_003"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound         ErrorCode = "CATEGORY_001"
	CategoryAlreadyExists    ErrorCode = "CATEGORY_002"
	CategoryInvalidID        ErrorCode = "CATEGORY_003"
	SubcategoryNotFound      ErrorCode = "CATEGORY_004"
	SubcategoryAlreadyExists ErrorCode = "CATEGORY_005"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound        ErrorCode = "TRANSACTION_001"
	TransactionInvalidID       ErrorCode = "TRANSACTION_002"
	TransactionInvalidCategory ErrorCode = "TRANSACTION_003"
	TransactionEmptySelection  ErrorCode = "TRANSACTION_004"
	TransactionInvalidFilter   ErrorCode = "TRANSACTION_005"
)

// Upload error codes (UPLOAD_*)
const (
	UploadUnknownFormat      ErrorCode = "UPLOAD_001"
	UploadUnsupportedContent ErrorCode = "UPLOAD_002"
	UploadEmptyFile          ErrorCode = "UPLOAD_003"
	UploadFileTooLarge       ErrorCode = "UPLOAD_004"
	UploadNoFiles            ErrorCode = "UPLOAD_005"
	UploadMalformedStatement ErrorCode = "UPLOAD_006"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_005"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials:     "Invalid email or password",
	AuthMissingToken:           "Authorization token is required",
	AuthExpiredToken:           "Authorization token has expired",
	AuthInvalidTokenFormat:     "Invalid authorization token format",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",
	ValidationInvalidDate:   "Invalid date format or range",

	// User errors
	UserNotFound:      "User not found",
	UserAlreadyExists: "An account with this email already exists",
	UserInvalidID:     "Invalid user ID format",

	// Category errors
	CategoryNotFound:         "Category not found",
	CategoryAlreadyExists:    "A category with this name already exists",
	CategoryInvalidID:        "Invalid category ID format",
	SubcategoryNotFound:      "Subcategory not found",
	SubcategoryAlreadyExists: "A subcategory with this name already exists in this category",

	// Transaction errors
	TransactionNotFound:        "Transaction not found",
	TransactionInvalidID:       "Invalid transaction ID format",
	TransactionInvalidCategory: "Referenced category or subcategory does not exist",
	TransactionEmptySelection:  "Transaction ID list cannot be empty",
	TransactionInvalidFilter:   "Invalid transaction filter parameters",

	// Upload errors
	UploadUnknownFormat:      "Could not determine the bank format of the uploaded file",
	UploadUnsupportedContent: "The file format was recognized but its content type cannot be parsed",
	UploadEmptyFile:          "Uploaded file is empty",
	UploadFileTooLarge:       "Uploaded file exceeds the maximum allowed size",
	UploadNoFiles:            "No files were provided in the upload",
	UploadMalformedStatement: "Statement file is malformed and no rows could be read",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
