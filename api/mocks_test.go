package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tesseract-fest/event-registration/email"
	"github.com/tesseract-fest/event-registration/payments"
	"github.com/tesseract-fest/event-registration/profiles"
	"github.com/tesseract-fest/event-registration/registration"
	"github.com/tesseract-fest/event-registration/tickets"
)

var noopLogger = slog.New(slog.DiscardHandler)

var testClaims = Claims{
	UserID: uuid.MustParse("a81bc81b-dead-4e5d-abff-90865d1e13b1"),
	Email:  "attendee@example.com",
}

type mockAuthValidator struct {
	ValidateFunc func(ctx context.Context, token string) (Claims, error)
}

func (m *mockAuthValidator) Validate(ctx context.Context, token string) (Claims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	return testClaims, nil
}

type mockEmailSender struct {
	SendEmailFunc func(ctx context.Context, e email.Email) error
}

func (m *mockEmailSender) SendEmail(ctx context.Context, e email.Email) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, e)
	}
	return nil
}

type mockOrderCreator struct {
	CreateOrderFunc func(ctx context.Context, params payments.CreateOrderParams) (payments.OrderResult, error)
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, params payments.CreateOrderParams) (payments.OrderResult, error) {
	return m.CreateOrderFunc(ctx, params)
}

type mockPaymentVerifier struct {
	VerifyPaymentFunc func(ctx context.Context, params payments.VerifyPaymentParams) error
}

func (m *mockPaymentVerifier) VerifyPayment(ctx context.Context, params payments.VerifyPaymentParams) error {
	return m.VerifyPaymentFunc(ctx, params)
}

var _ DB = &mockDB{}

type mockDB struct {
	GetTicketFunc                  func(ctx context.Context, id uuid.UUID) (tickets.Ticket, error)
	CreateTicketFunc               func(ctx context.Context, ticket tickets.Ticket) error
	GetProfileFunc                 func(ctx context.Context, id uuid.UUID) (profiles.Profile, error)
	GetProfileByReferralCodeFunc   func(ctx context.Context, code string) (profiles.Profile, error)
	CreateProfileFunc              func(ctx context.Context, profile profiles.Profile) error
	CreateRegistrationFunc         func(ctx context.Context, reg registration.Registration) error
	GetRegistrationFunc            func(ctx context.Context, id uuid.UUID) (registration.Registration, error)
	SetRazorpayOrderIDFunc         func(ctx context.Context, id uuid.UUID, orderID string) error
	ConfirmRegistrationPaymentFunc func(ctx context.Context, id uuid.UUID, paymentID string) error
}

func (m *mockDB) GetTicket(ctx context.Context, id uuid.UUID) (tickets.Ticket, error) {
	if m.GetTicketFunc != nil {
		return m.GetTicketFunc(ctx, id)
	}
	return tickets.Ticket{ID: id, Title: "Day Pass", Active: true}, nil
}

func (m *mockDB) CreateTicket(ctx context.Context, ticket tickets.Ticket) error {
	if m.CreateTicketFunc != nil {
		return m.CreateTicketFunc(ctx, ticket)
	}
	return nil
}

func (m *mockDB) GetProfile(ctx context.Context, id uuid.UUID) (profiles.Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, id)
	}
	return profiles.Profile{ID: id, Email: testClaims.Email}, nil
}

func (m *mockDB) GetProfileByReferralCode(ctx context.Context, code string) (profiles.Profile, error) {
	if m.GetProfileByReferralCodeFunc != nil {
		return m.GetProfileByReferralCodeFunc(ctx, code)
	}
	return profiles.Profile{}, profiles.NewReferralCodeDoesNotExistError("no such code", nil)
}

func (m *mockDB) CreateProfile(ctx context.Context, profile profiles.Profile) error {
	if m.CreateProfileFunc != nil {
		return m.CreateProfileFunc(ctx, profile)
	}
	return nil
}

func (m *mockDB) CreateRegistration(ctx context.Context, reg registration.Registration) error {
	if m.CreateRegistrationFunc != nil {
		return m.CreateRegistrationFunc(ctx, reg)
	}
	return nil
}

func (m *mockDB) GetRegistration(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
	if m.GetRegistrationFunc != nil {
		return m.GetRegistrationFunc(ctx, id)
	}
	return registration.Registration{ID: id, Status: registration.STATUS_PENDING}, nil
}

func (m *mockDB) SetRazorpayOrderID(ctx context.Context, id uuid.UUID, orderID string) error {
	if m.SetRazorpayOrderIDFunc != nil {
		return m.SetRazorpayOrderIDFunc(ctx, id, orderID)
	}
	return nil
}

func (m *mockDB) ConfirmRegistrationPayment(ctx context.Context, id uuid.UUID, paymentID string) error {
	if m.ConfirmRegistrationPaymentFunc != nil {
		return m.ConfirmRegistrationPaymentFunc(ctx, id, paymentID)
	}
	return nil
}

func newTestAPI(db *mockDB, orders *mockOrderCreator, verifier *mockPaymentVerifier) *API {
	return NewAPI(db, noopLogger, LOCAL, &mockAuthValidator{}, "test-api-key", orders, verifier, &mockEmailSender{})
}
