package roadmap

import (
	"net/http"

	"github.com/Abraxas-365/skillpath/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("ROADMAP")

// Error codes
var (
	CodeRoadmapNotFound         = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Roadmap not found")
	CodePhaseNotFound           = ErrRegistry.Register("PHASE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Phase not found")
	CodeMilestoneNotFound       = ErrRegistry.Register("MILESTONE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Milestone not found")
	CodeInvalidTransition       = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Roadmap cannot change to the requested status")
	CodeInvalidCustomizations   = ErrRegistry.Register("INVALID_CUSTOMIZATIONS", errx.TypeValidation, http.StatusBadRequest, "Invalid roadmap customizations")
	CodeRoadmapAlreadyExists    = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Roadmap already exists for this analysis")
	CodeConcurrentModification  = ErrRegistry.Register("CONCURRENT_MODIFICATION", errx.TypeConflict, http.StatusConflict, "Roadmap was modified by another request")
	CodeAnalysisNotReady        = ErrRegistry.Register("ANALYSIS_NOT_READY", errx.TypeNotFound, http.StatusNotFound, "Analysis not found or not completed")
	CodeShareTokenFailed        = ErrRegistry.Register("SHARE_TOKEN_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate share token")
	CodeInsufficientPermissions = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
	CodeInvalidRequest          = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request")
)

// Helper functions
func ErrRoadmapNotFound() *errx.Error {
	return ErrRegistry.New(CodeRoadmapNotFound)
}

func ErrPhaseNotFound() *errx.Error {
	return ErrRegistry.New(CodePhaseNotFound)
}

func ErrMilestoneNotFound() *errx.Error {
	return ErrRegistry.New(CodeMilestoneNotFound)
}

func ErrInvalidTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition)
}

func ErrInvalidCustomizations() *errx.Error {
	return ErrRegistry.New(CodeInvalidCustomizations)
}

func ErrRoadmapAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeRoadmapAlreadyExists)
}

func ErrConcurrentModification() *errx.Error {
	return ErrRegistry.New(CodeConcurrentModification)
}

func ErrAnalysisNotReady() *errx.Error {
	return ErrRegistry.New(CodeAnalysisNotReady)
}

func ErrShareTokenFailed() *errx.Error {
	return ErrRegistry.New(CodeShareTokenFailed)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
