package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidArgument is returned when input validation fails
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRecordNotFound is returned when a record is not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrCorpusLoad is returned when the corpus cannot be loaded at all
	ErrCorpusLoad = errors.New("corpus load failed")
)

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RecordNotFoundError represents a record not found error with context
type RecordNotFoundError struct {
	RecordID string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record with ID '%s' not found", e.RecordID)
}

func (e *RecordNotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}

// NewRecordNotFoundError creates a new RecordNotFoundError
func NewRecordNotFoundError(recordID string) *RecordNotFoundError {
	return &RecordNotFoundError{RecordID: recordID}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// CorpusLoadError represents a failure to load the corpus, carrying the IDs
// of the records that could not be read. A partial load (some records
// failed, some succeeded) is reported via the loader's failed-ID slice
// instead; CorpusLoadError means the load as a whole did not produce a
// usable corpus.
type CorpusLoadError struct {
	Dir       string
	FailedIDs []string
	Cause     error
}

func (e *CorpusLoadError) Error() string {
	msg := fmt.Sprintf("failed to load corpus from '%s'", e.Dir)
	if len(e.FailedIDs) > 0 {
		msg += fmt.Sprintf(" (failed records: %s)", strings.Join(e.FailedIDs, ", "))
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CorpusLoadError) Is(target error) bool {
	return target == ErrCorpusLoad
}

func (e *CorpusLoadError) Unwrap() error {
	return e.Cause
}

// NewCorpusLoadError creates a new CorpusLoadError
func NewCorpusLoadError(dir string, failedIDs []string, cause error) *CorpusLoadError {
	return &CorpusLoadError{Dir: dir, FailedIDs: failedIDs, Cause: cause}
}
