package flow

import "fmt"

type ErrorReason string

const (
	REASON_SUBMISSION_IN_FLIGHT ErrorReason = "SUBMISSION_IN_FLIGHT"
	REASON_INVALID_FORM         ErrorReason = "INVALID_FORM"
	REASON_REGISTRATION_FAILED  ErrorReason = "REGISTRATION_FAILED"
	REASON_ORDER_FAILED         ErrorReason = "ORDER_FAILED"
	REASON_WIDGET_FAILED        ErrorReason = "WIDGET_FAILED"
	REASON_VERIFICATION_FAILED  ErrorReason = "VERIFICATION_FAILED"
)

type Error struct {
	Reason  ErrorReason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Reason, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newFlowError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewSubmissionInFlightError() *Error {
	return newFlowError(REASON_SUBMISSION_IN_FLIGHT, "A submission is already in progress", nil)
}

func NewInvalidFormError(message string) *Error {
	return newFlowError(REASON_INVALID_FORM, message, nil)
}

func NewRegistrationFailedError(cause error) *Error {
	return newFlowError(REASON_REGISTRATION_FAILED, "Failed to create registration", cause)
}

func NewOrderFailedError(cause error) *Error {
	return newFlowError(REASON_ORDER_FAILED, "Failed to create payment order", cause)
}

func NewWidgetFailedError(message string, cause error) *Error {
	return newFlowError(REASON_WIDGET_FAILED, message, cause)
}

func NewVerificationFailedError(cause error) *Error {
	return newFlowError(REASON_VERIFICATION_FAILED, "Payment verification failed", cause)
}
