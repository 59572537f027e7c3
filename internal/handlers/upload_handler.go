package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"expenses-api/internal/config"
	"expenses-api/internal/dto"
	"expenses-api/internal/errors"
	"expenses-api/internal/services"

	"github.com/labstack/echo/v4"
)

// UploadHandler handles bank statement uploads and format detection
type UploadHandler struct {
	importService services.ImportServiceInterface
	uploadConfig  config.UploadConfig
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(importService services.ImportServiceInterface, uploadConfig config.UploadConfig) *UploadHandler {
	return &UploadHandler{
		importService: importService,
		uploadConfig:  uploadConfig,
	}
}

// Upload imports a batch of statement files. Each file yields its own result;
// a malformed file never aborts the rest of the batch.
func (h *UploadHandler) Upload(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid multipart form"))
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return SendError(c, errors.UploadNoFiles)
	}

	if len(fileHeaders) > h.uploadConfig.MaxFilesPerBatch {
		return SendError(c, errors.ValidationGeneral,
			errors.WithDetails(fmt.Sprintf("A batch may contain at most %d files", h.uploadConfig.MaxFilesPerBatch)))
	}

	// Optional client override; skips content detection for every file in the batch.
	forcedType := c.FormValue("bank_type")

	files := make([]services.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > h.uploadConfig.MaxFileSizeBytes {
			return SendError(c, errors.UploadFileTooLarge,
				errors.WithDetails(fmt.Sprintf("%s exceeds the %d byte limit", fh.Filename, h.uploadConfig.MaxFileSizeBytes)))
		}

		content, err := readMultipartFile(fh)
		if err != nil {
			return SendSystemError(c, err)
		}

		files = append(files, services.UploadedFile{
			Filename:   fh.Filename,
			Content:    content,
			ForcedType: forcedType,
		})
	}

	results := h.importService.ImportFiles(userID, files)

	return c.JSON(http.StatusOK, dto.NewUploadResponse(results))
}

// DetectBank reports which bank format an uploaded file matches, without
// importing anything.
func (h *UploadHandler) DetectBank(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return SendError(c, errors.UploadNoFiles)
	}

	if fh.Size > h.uploadConfig.MaxFileSizeBytes {
		return SendError(c, errors.UploadFileTooLarge)
	}

	content, err := readMultipartFile(fh)
	if err != nil {
		return SendSystemError(c, err)
	}

	if len(content) == 0 {
		return SendError(c, errors.UploadEmptyFile)
	}

	response := dto.DetectBankResponse{}
	if format, ok := h.importService.DetectBank(content, fh.Filename); ok {
		response.Success = true
		response.BankType = format.Tag
		response.BankName = format.Label
	} else {
		response.Message = fmt.Sprintf("Could not detect the bank type of %s", fh.Filename)
	}

	return c.JSON(http.StatusOK, response)
}

// BankTypes lists the supported statement formats
func (h *UploadHandler) BankTypes(c echo.Context) error {
	formats := h.importService.Formats()

	types := make([]dto.BankTypeResponse, 0, len(formats))
	for _, format := range formats {
		types = append(types, dto.BankTypeResponse{
			ID:   format.Tag,
			Name: format.Label,
		})
	}

	return c.JSON(http.StatusOK, dto.BankTypesResponse{BankTypes: types})
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return content, nil
}
