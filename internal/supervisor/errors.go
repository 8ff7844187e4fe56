package supervisor

import "fmt"

// ProcessError represents a domain-specific error
type ProcessError struct {
	Code    string
	Name    string
	Message string
	Cause   error
}

func (e *ProcessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeNotFound      = "PROCESS_NOT_FOUND"
	ErrCodeAlreadyExists = "PROCESS_ALREADY_EXISTS"
	ErrCodeNotRunning    = "PROCESS_NOT_RUNNING"
	ErrCodeInvalidConfig = "INVALID_CONFIG"
	ErrCodeIOFailure     = "IO_FAILURE"
	ErrCodeStdinWrite    = "STDIN_WRITE_FAILED"
)

// NewProcessError creates a new process error
func NewProcessError(code, name, message string, cause error) *ProcessError {
	return &ProcessError{
		Code:    code,
		Name:    name,
		Message: message,
		Cause:   cause,
	}
}

func errNotFound(name string) *ProcessError {
	return NewProcessError(ErrCodeNotFound, name, fmt.Sprintf("process %s not found", name), nil)
}

func errAlreadyExists(name string) *ProcessError {
	return NewProcessError(ErrCodeAlreadyExists, name, fmt.Sprintf("process %s already exists", name), nil)
}

func errNotRunning(name string) *ProcessError {
	return NewProcessError(ErrCodeNotRunning, name, fmt.Sprintf("process %s has no open stdin", name), nil)
}

func errInvalidConfig(message string) *ProcessError {
	return NewProcessError(ErrCodeInvalidConfig, "", message, nil)
}

func errIOFailure(name string, cause error) *ProcessError {
	return NewProcessError(ErrCodeIOFailure, name, fmt.Sprintf("failed to launch process %s", name), cause)
}

func errStdinWrite(name string, cause error) *ProcessError {
	return NewProcessError(ErrCodeStdinWrite, name, fmt.Sprintf("stdin write to %s failed", name), cause)
}
