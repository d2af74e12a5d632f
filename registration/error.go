package registration

import (
	"fmt"
	"strings"
)

type ErrorReason string

const (
	REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL  ErrorReason = "FAILED_TO_TRANSLATE_TO_DB_MODEL"
	REASON_FAILED_TO_WRITE                  ErrorReason = "FAILED_TO_WRITE"
	REASON_REGISTRATION_DOES_NOT_EXIST      ErrorReason = "REGISTRATION_DOES_NOT_EXIST"
	REASON_CODE_ALREADY_EXISTS              ErrorReason = "CODE_ALREADY_EXISTS"
	REASON_FAILED_TO_FETCH                  ErrorReason = "FAILED_TO_FETCH"
	REASON_ASSOCIATED_TICKET_DOES_NOT_EXIST ErrorReason = "ASSOCIATED_TICKET_DOES_NOT_EXIST"
	REASON_TICKET_NOT_ACTIVE                ErrorReason = "TICKET_NOT_ACTIVE"
	REASON_MISSING_REQUIRED_FIELDS          ErrorReason = "MISSING_REQUIRED_FIELDS"
	REASON_INVALID_REFERRAL_CODE            ErrorReason = "INVALID_REFERRAL_CODE"
	REASON_PROFILE_DOES_NOT_EXIST           ErrorReason = "PROFILE_DOES_NOT_EXIST"
	REASON_PAYMENT_CONFLICT                 ErrorReason = "PAYMENT_CONFLICT"
	REASON_TIMEOUT                          ErrorReason = "TIMEOUT"
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

func newRegistrationError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewFailedToWriteError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_WRITE, message, cause)
}

func NewFailedToTranslateToDBModelError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL, message, cause)
}

func NewCodeAlreadyExistsError(message string, cause error) *Error {
	return newRegistrationError(REASON_CODE_ALREADY_EXISTS, message, cause)
}

func NewRegistrationDoesNotExistsError(message string, cause error) *Error {
	return newRegistrationError(REASON_REGISTRATION_DOES_NOT_EXIST, message, cause)
}

func NewFailedToFetchError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_FETCH, message, cause)
}

func NewAssociatedTicketDoesNotExistError(message string, cause error) *Error {
	return newRegistrationError(REASON_ASSOCIATED_TICKET_DOES_NOT_EXIST, message, cause)
}

func NewTicketNotActiveError(message string) *Error {
	return newRegistrationError(REASON_TICKET_NOT_ACTIVE, message, nil)
}

func NewMissingRequiredFieldsError(fields []string) *Error {
	return newRegistrationError(REASON_MISSING_REQUIRED_FIELDS, fmt.Sprintf("Please fill in: %s", strings.Join(fields, ", ")), nil)
}

func NewInvalidReferralCodeError(message string, cause error) *Error {
	return newRegistrationError(REASON_INVALID_REFERRAL_CODE, message, cause)
}

func NewProfileDoesNotExistError(message string, cause error) *Error {
	return newRegistrationError(REASON_PROFILE_DOES_NOT_EXIST, message, cause)
}

func NewPaymentConflictError(message string, cause error) *Error {
	return newRegistrationError(REASON_PAYMENT_CONFLICT, message, cause)
}

func NewTimeoutError(message string) *Error {
	return newRegistrationError(REASON_TIMEOUT, message, nil)
}
