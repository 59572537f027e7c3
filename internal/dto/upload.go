package dto

import (
	"fmt"

	"expenses-api/internal/models"
)

// Upload Response DTOs

// BankTypeResponse describes a supported statement format
type BankTypeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BankTypesResponse lists the supported statement formats
type BankTypesResponse struct {
	BankTypes []BankTypeResponse `json:"bank_types"`
}

// DetectBankResponse reports the format detected for an uploaded file. On a
// miss Success is false and Message explains it.
type DetectBankResponse struct {
	Success  bool   `json:"success"`
	BankType string `json:"bank_type,omitempty"`
	BankName string `json:"bank_name,omitempty"`
	Message  string `json:"message,omitempty"`
}

// UploadResponse aggregates a statement batch: whole-batch counters and
// message up front, one detailed result per file behind them. Success means
// at least one file was processed to the end.
type UploadResponse struct {
	Success      bool                  `json:"success"`
	Message      string                `json:"message"`
	TotalRows    int                   `json:"total_rows"`
	Imported     int                   `json:"imported"`
	Duplicates   int                   `json:"duplicates"`
	Errors       int                   `json:"errors"`
	ErrorDetails []models.RowError     `json:"error_details"`
	Files        []models.ImportResult `json:"files"`
}

// NewUploadResponse rolls per-file import results up into the batch response.
// A failed file counts as one error; its row counters never got populated.
func NewUploadResponse(results []models.ImportResult) UploadResponse {
	response := UploadResponse{
		ErrorDetails: []models.RowError{},
		Files:        results,
	}

	processed := 0
	for _, result := range results {
		if result.Failed {
			response.Errors++
			continue
		}
		processed++
		response.TotalRows += result.TotalRows
		response.Imported += result.Imported
		response.Duplicates += result.Duplicates
		response.Errors += result.Errors
		for _, detail := range result.ErrorDetails {
			if len(response.ErrorDetails) >= models.MaxImportErrorDetails {
				break
			}
			response.ErrorDetails = append(response.ErrorDetails, detail)
		}
	}

	response.Success = processed > 0
	if response.Success {
		response.Message = fmt.Sprintf("Processed %d of %d files: %d imported, %d duplicates, %d errors",
			processed, len(results), response.Imported, response.Duplicates, response.Errors)
	} else {
		response.Message = "No files could be processed"
	}
	return response
}
