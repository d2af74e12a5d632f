package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tesseract-fest/event-registration/registration"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// PaymentConfirmation is the triple the gateway's checkout widget hands back
// after the attendee completes payment. It is consumed exactly once by
// VerifyPayment and never persisted as its own entity.
type PaymentConfirmation struct {
	OrderID   string
	PaymentID string
	Signature string
}

// VerifyStore is the slice of the registration store the verification
// service needs. ConfirmRegistrationPayment must be atomic: the write only
// applies if no different payment reference is already stored.
type VerifyStore interface {
	GetRegistration(ctx context.Context, id uuid.UUID) (registration.Registration, error)
	ConfirmRegistrationPayment(ctx context.Context, id uuid.UUID, paymentID string) error
}

type VerifyPaymentParams struct {
	OrderID        string
	PaymentID      string
	Signature      string
	RegistrationID string
}

type VerifyService struct {
	creds  Credentials
	store  VerifyStore
	logger *slog.Logger
	tracer trace.Tracer
}

func NewVerifyService(creds Credentials, store VerifyStore, logger *slog.Logger) *VerifyService {
	return &VerifyService{
		creds:  creds,
		store:  store,
		logger: logger,
		tracer: otel.Tracer("payments"),
	}
}

// VerifyPayment validates a payment confirmation and moves the registration
// to confirmed. It is safe to call any number of times with the same payment
// reference: a replay after the registration is already confirmed succeeds
// without another write. A confirmation bearing a different payment
// reference for an already confirmed registration is rejected as a conflict,
// and a confirmation whose signature does not verify never mutates anything.
func (s *VerifyService) VerifyPayment(ctx context.Context, params VerifyPaymentParams) error {
	ctx, span := s.tracer.Start(ctx, "VerifyPayment")
	defer span.End()

	if params.OrderID == "" {
		return NewValidationError("Missing order ID")
	}
	if params.PaymentID == "" {
		return NewValidationError("Missing payment ID")
	}
	if params.Signature == "" {
		return NewValidationError("Missing signature")
	}
	if params.RegistrationID == "" {
		return NewValidationError("Missing registration ID")
	}

	registrationID, err := uuid.Parse(params.RegistrationID)
	if err != nil {
		return NewValidationError(fmt.Sprintf("Registration ID %q is not a valid UUID", params.RegistrationID))
	}

	if s.creds == nil || s.store == nil {
		return NewConfigurationError("Payment service is not configured", nil)
	}

	secret, err := s.creds.KeySecret(ctx)
	if err != nil || secret == "" {
		return NewConfigurationError("Gateway key secret is not available", err)
	}

	if !VerifySignature(params.OrderID, params.PaymentID, params.Signature, secret) {
		s.logger.WarnContext(ctx, "Payment signature did not verify, possible forgery attempt",
			slog.String("orderId", params.OrderID),
			slog.String("paymentId", params.PaymentID),
			slog.String("registrationId", params.RegistrationID),
		)
		return NewSignatureError("Invalid payment signature")
	}

	reg, err := s.store.GetRegistration(ctx, registrationID)
	if err != nil {
		var regErr *registration.Error
		if errors.As(err, &regErr) && regErr.Reason == registration.REASON_REGISTRATION_DOES_NOT_EXIST {
			return NewRegistrationDoesNotExistError(fmt.Sprintf("Registration %q not found", params.RegistrationID), err)
		}
		return NewPersistenceError(fmt.Sprintf("Failed to load registration %q", params.RegistrationID), err)
	}

	// Safe replay: a client retry after a lost success response arrives
	// with the payment reference we already stored.
	if reg.RazorpayPaymentID != nil && *reg.RazorpayPaymentID == params.PaymentID {
		s.logger.InfoContext(ctx, "Payment already processed, treating as replay",
			slog.String("paymentId", params.PaymentID),
			slog.String("registrationId", params.RegistrationID),
		)
		return nil
	}

	err = s.store.ConfirmRegistrationPayment(ctx, registrationID, params.PaymentID)
	if err != nil {
		var regErr *registration.Error
		if errors.As(err, &regErr) && regErr.Reason == registration.REASON_PAYMENT_CONFLICT {
			return NewPaymentConflictError(fmt.Sprintf("Registration %q already holds a different payment reference", params.RegistrationID), err)
		}
		return NewPersistenceError(fmt.Sprintf("Failed to confirm registration %q", params.RegistrationID), err)
	}

	s.logger.InfoContext(ctx, "Registration confirmed",
		slog.String("paymentId", params.PaymentID),
		slog.String("registrationId", params.RegistrationID),
	)

	return nil
}
