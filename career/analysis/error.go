package analysis

import (
	"net/http"

	"github.com/Abraxas-365/skillpath/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("ANALYSIS")

// Error codes
var (
	CodeAnalysisNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Analysis not found")
	CodeRoleNotFound            = ErrRegistry.Register("ROLE_NOT_FOUND", errx.TypeValidation, http.StatusBadRequest, "Unknown target role")
	CodeUnsupportedFileType     = ErrRegistry.Register("UNSUPPORTED_FILE_TYPE", errx.TypeValidation, http.StatusBadRequest, "Unsupported file type")
	CodeFileTooLarge            = ErrRegistry.Register("FILE_TOO_LARGE", errx.TypeValidation, http.StatusRequestEntityTooLarge, "File exceeds the maximum upload size")
	CodeEmptyFile               = ErrRegistry.Register("EMPTY_FILE", errx.TypeValidation, http.StatusBadRequest, "Uploaded file is empty")
	CodeStorageFailed           = ErrRegistry.Register("STORAGE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to store resume file")
	CodeQueueFailed             = ErrRegistry.Register("QUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to queue analysis")
	CodeExtractionFailed        = ErrRegistry.Register("EXTRACTION_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to extract skills from resume")
	CodeAlreadyProcessed        = ErrRegistry.Register("ALREADY_PROCESSED", errx.TypeBusiness, http.StatusConflict, "Analysis has already been processed")
	CodeInsufficientPermissions = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
	CodeInvalidRequest          = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request")
)

// Helper functions
func ErrAnalysisNotFound() *errx.Error {
	return ErrRegistry.New(CodeAnalysisNotFound)
}

func ErrRoleNotFound() *errx.Error {
	return ErrRegistry.New(CodeRoleNotFound)
}

func ErrUnsupportedFileType() *errx.Error {
	return ErrRegistry.New(CodeUnsupportedFileType)
}

func ErrFileTooLarge() *errx.Error {
	return ErrRegistry.New(CodeFileTooLarge)
}

func ErrEmptyFile() *errx.Error {
	return ErrRegistry.New(CodeEmptyFile)
}

func ErrStorageFailed() *errx.Error {
	return ErrRegistry.New(CodeStorageFailed)
}

func ErrQueueFailed() *errx.Error {
	return ErrRegistry.New(CodeQueueFailed)
}

func ErrExtractionFailed() *errx.Error {
	return ErrRegistry.New(CodeExtractionFailed)
}

func ErrAlreadyProcessed() *errx.Error {
	return ErrRegistry.New(CodeAlreadyProcessed)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
