package usecase

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotAllowed   = errors.New("not allowed")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	ErrJobNotFound      = errors.New("job not found")
	ErrJobFieldsMissing = errors.New("missing required job fields")
	ErrInvalidJobType   = errors.New("invalid job type")

	ErrJobIDRequired          = errors.New("job id required")
	ErrResumeRequired         = errors.New("resume required before applying")
	ErrAlreadyApplied         = errors.New("already applied")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrApplicationNotFound    = errors.New("application not found")
	ErrInvalidApplicationID   = errors.New("invalid application id")
	ErrResumeFileMissing      = errors.New("no file uploaded")
	ErrResumeFileTooLarge     = errors.New("file too large")
	ErrResumeStoreUnavailable = errors.New("resume storage unavailable")
)
