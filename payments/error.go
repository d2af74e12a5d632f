package payments

import "fmt"

type ErrorReason string

const (
	REASON_VALIDATION                  ErrorReason = "VALIDATION"
	REASON_CONFIGURATION               ErrorReason = "CONFIGURATION"
	REASON_UPSTREAM                    ErrorReason = "UPSTREAM"
	REASON_SIGNATURE                   ErrorReason = "SIGNATURE"
	REASON_REGISTRATION_DOES_NOT_EXIST ErrorReason = "REGISTRATION_DOES_NOT_EXIST"
	REASON_PERSISTENCE                 ErrorReason = "PERSISTENCE"
	REASON_PAYMENT_CONFLICT            ErrorReason = "PAYMENT_CONFLICT"
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

func newPaymentError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(message string) *Error {
	return newPaymentError(REASON_VALIDATION, message, nil)
}

func NewConfigurationError(message string, cause error) *Error {
	return newPaymentError(REASON_CONFIGURATION, message, cause)
}

func NewUpstreamError(message string, cause error) *Error {
	return newPaymentError(REASON_UPSTREAM, message, cause)
}

func NewSignatureError(message string) *Error {
	return newPaymentError(REASON_SIGNATURE, message, nil)
}

func NewRegistrationDoesNotExistError(message string, cause error) *Error {
	return newPaymentError(REASON_REGISTRATION_DOES_NOT_EXIST, message, cause)
}

func NewPersistenceError(message string, cause error) *Error {
	return newPaymentError(REASON_PERSISTENCE, message, cause)
}

func NewPaymentConflictError(message string, cause error) *Error {
	return newPaymentError(REASON_PAYMENT_CONFLICT, message, cause)
}
