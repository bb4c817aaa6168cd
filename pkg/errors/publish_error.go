package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	CodeNotFound          = "not_found"
	CodeInternal          = "internal_error"
	CodeInvalidRequest    = "invalid_request"
	CodeNotImage          = "not_image"
	CodeStorage           = "storage_error"
	CodeNotConnected      = "integration_not_connected"
	CodeMissingCredential = "missing_credential"
	CodeMediaLimit        = "media_limit_exceeded"
	CodeContainerNotReady = "container_not_ready"
	CodePublishRejected   = "publish_rejected"
	CodePlatform          = "platform_error"
	CodeQueue             = "queue_error"
)

type PublishError struct {
	Code    string
	Message string
	Err     error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Code returns the code of the first PublishError in err's chain, or "".
func Code(err error) string {
	var pe *PublishError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Message returns the user-facing message of err: the PublishError message
// when there is one, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var pe *PublishError
	if stderrors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return Code(err) == code
}

var (
	ErrNotFound = func(err error) *PublishError {
		return &PublishError{Code: CodeNotFound, Message: "Resource not found", Err: err}
	}
	ErrInternal = func(err error) *PublishError {
		return &PublishError{Code: CodeInternal, Message: "Internal server error", Err: err}
	}
	ErrInvalidRequest = func(msg string) *PublishError {
		return &PublishError{Code: CodeInvalidRequest, Message: msg}
	}
	ErrNotImage = func(contentType string) *PublishError {
		return &PublishError{Code: CodeNotImage, Message: fmt.Sprintf("content type %q is not an image", contentType)}
	}
	ErrStorage = func(err error) *PublishError {
		return &PublishError{Code: CodeStorage, Message: "Image could not be stored", Err: err}
	}
	ErrNotConnected = func() *PublishError {
		return &PublishError{Code: CodeNotConnected, Message: "Integration not connected. Please reconnect the account."}
	}
	ErrMissingCredential = func(field string) *PublishError {
		return &PublishError{Code: CodeMissingCredential, Message: fmt.Sprintf("Integration is missing %s. Please reconnect the account.", field)}
	}
	ErrMediaLimit = func(count, limit int) *PublishError {
		return &PublishError{Code: CodeMediaLimit, Message: fmt.Sprintf("%d media items exceed the limit of %d per post", count, limit)}
	}
	ErrContainerNotReady = func(containerID string, err error) *PublishError {
		return &PublishError{Code: CodeContainerNotReady, Message: withCause(fmt.Sprintf("container %s never became ready", containerID), err), Err: err}
	}
	ErrPublishRejected = func(containerID string, err error) *PublishError {
		return &PublishError{Code: CodePublishRejected, Message: withCause(fmt.Sprintf("container %s was rejected at publish", containerID), err), Err: err}
	}
	ErrPlatform = func(op string, err error) *PublishError {
		return &PublishError{Code: CodePlatform, Message: withCause(op+" failed", err), Err: err}
	}
	ErrQueue = func(err error) *PublishError {
		return &PublishError{Code: CodeQueue, Message: "Publish job could not be queued", Err: err}
	}
)

func withCause(msg string, err error) string {
	if err == nil {
		return msg
	}
	return msg + ": " + err.Error()
}
