package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tesseract-fest/event-registration/registration"
)

type mockCredentials struct {
	KeyIDFunc     func(ctx context.Context) (string, error)
	KeySecretFunc func(ctx context.Context) (string, error)
}

func (m *mockCredentials) KeyID(ctx context.Context) (string, error) {
	if m.KeyIDFunc != nil {
		return m.KeyIDFunc(ctx)
	}
	return "rzp_test_key", nil
}

func (m *mockCredentials) KeySecret(ctx context.Context) (string, error) {
	if m.KeySecretFunc != nil {
		return m.KeySecretFunc(ctx)
	}
	return "test-secret", nil
}

type mockVerifyStore struct {
	GetRegistrationFunc            func(ctx context.Context, id uuid.UUID) (registration.Registration, error)
	ConfirmRegistrationPaymentFunc func(ctx context.Context, id uuid.UUID, paymentID string) error
}

func (m *mockVerifyStore) GetRegistration(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
	if m.GetRegistrationFunc != nil {
		return m.GetRegistrationFunc(ctx, id)
	}
	return registration.Registration{ID: id, Status: registration.STATUS_PENDING}, nil
}

func (m *mockVerifyStore) ConfirmRegistrationPayment(ctx context.Context, id uuid.UUID, paymentID string) error {
	if m.ConfirmRegistrationPaymentFunc != nil {
		return m.ConfirmRegistrationPaymentFunc(ctx, id, paymentID)
	}
	return nil
}

func validParams(regID uuid.UUID) VerifyPaymentParams {
	return VerifyPaymentParams{
		OrderID:        "order_123",
		PaymentID:      "pay_456",
		Signature:      SignPayment("order_123", "pay_456", "test-secret"),
		RegistrationID: regID.String(),
	}
}

func TestVerifyPayment(t *testing.T) {
	regID := uuid.New()

	t.Run("successful verification confirms the registration", func(t *testing.T) {
		confirmed := false
		store := &mockVerifyStore{
			ConfirmRegistrationPaymentFunc: func(ctx context.Context, id uuid.UUID, paymentID string) error {
				confirmed = true
				assert.Equal(t, regID, id)
				assert.Equal(t, "pay_456", paymentID)
				return nil
			},
		}

		svc := NewVerifyService(&mockCredentials{}, store, noopLogger)
		err := svc.VerifyPayment(context.Background(), validParams(regID))

		assert.NoError(t, err)
		assert.True(t, confirmed)
	})

	t.Run("rejects missing fields before touching credentials or store", func(t *testing.T) {
		creds := &mockCredentials{
			KeySecretFunc: func(ctx context.Context) (string, error) {
				t.Fatal("credentials should not be resolved for invalid input")
				return "", nil
			},
		}
		store := &mockVerifyStore{
			GetRegistrationFunc: func(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
				t.Fatal("store should not be read for invalid input")
				return registration.Registration{}, nil
			},
		}
		svc := NewVerifyService(creds, store, noopLogger)

		for name, mutate := range map[string]func(*VerifyPaymentParams){
			"order ID":        func(p *VerifyPaymentParams) { p.OrderID = "" },
			"payment ID":      func(p *VerifyPaymentParams) { p.PaymentID = "" },
			"signature":       func(p *VerifyPaymentParams) { p.Signature = "" },
			"registration ID": func(p *VerifyPaymentParams) { p.RegistrationID = "" },
		} {
			params := validParams(regID)
			mutate(&params)

			err := svc.VerifyPayment(context.Background(), params)

			var paymentErr *Error
			assert.ErrorAs(t, err, &paymentErr, "missing %s", name)
			assert.Equal(t, REASON_VALIDATION, paymentErr.Reason)
		}
	})

	t.Run("rejects malformed registration ID", func(t *testing.T) {
		svc := NewVerifyService(&mockCredentials{}, &mockVerifyStore{}, noopLogger)

		params := validParams(regID)
		params.RegistrationID = "not-a-uuid"
		err := svc.VerifyPayment(context.Background(), params)

		var paymentErr *Error
		assert.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, REASON_VALIDATION, paymentErr.Reason)
	})

	t.Run("missing key secret is a configuration error", func(t *testing.T) {
		creds := &mockCredentials{
			KeySecretFunc: func(ctx context.Context) (string, error) {
				return "", nil
			},
		}

		svc := NewVerifyService(creds, &mockVerifyStore{}, noopLogger)
		err := svc.VerifyPayment(context.Background(), validParams(regID))

		var paymentErr *Error
		assert.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, REASON_CONFIGURATION, paymentErr.Reason)
	})

	t.Run("bad signature never reaches the store", func(t *testing.T) {
		store := &mockVerifyStore{
			GetRegistrationFunc: func(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
				t.Fatal("store should not be read when the signature fails")
				return registration.Registration{}, nil
			},
		}

		svc := NewVerifyService(&mockCredentials{}, store, noopLogger)

		params := validParams(regID)
		params.Signature = SignPayment("order_123", "pay_456", "wrong-secret")
		err := svc.VerifyPayment(context.Background(), params)

		var paymentErr *Error
		assert.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, REASON_SIGNATURE, paymentErr.Reason)
	})

	t.Run("unknown registration maps to not found", func(t *testing.T) {
		store := &mockVerifyStore{
			GetRegistrationFunc: func(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
				return registration.Registration{}, registration.NewRegistrationDoesNotExistsError("no registration found", nil)
			},
		}

		svc := NewVerifyService(&mockCredentials{}, store, noopLogger)
		err := svc.VerifyPayment(context.Background(), validParams(regID))

		var paymentErr *Error
		assert.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, REASON_REGISTRATION_DOES_NOT_EXIST, paymentErr.Reason)
	})

	t.Run("replay with the stored payment ID succeeds without a write", func(t *testing.T) {
		paymentID := "pay_456"
		store := &mockVerifyStore{
			GetRegistrationFunc: func(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
				return registration.Registration{
					ID:                id,
					Status:            registration.STATUS_CONFIRMED,
					RazorpayPaymentID: &paymentID,
				}, nil
			},
			ConfirmRegistrationPaymentFunc: func(ctx context.Context, id uuid.UUID, paymentID string) error {
				t.Fatal("replay must not write")
				return nil
			},
		}

		svc := NewVerifyService(&mockCredentials{}, store, noopLogger)
		err := svc.VerifyPayment(context.Background(), validParams(regID))

		assert.NoError(t, err)
	})

	t.Run("different payment ID for a confirmed registration is a conflict", func(t *testing.T) {
		storedPaymentID := "pay_other"
		store := &mockVerifyStore{
			GetRegistrationFunc: func(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
				return registration.Registration{
					ID:                id,
					Status:            registration.STATUS_CONFIRMED,
					RazorpayPaymentID: &storedPaymentID,
				}, nil
			},
			ConfirmRegistrationPaymentFunc: func(ctx context.Context, id uuid.UUID, paymentID string) error {
				return registration.NewPaymentConflictError("registration already holds a payment", nil)
			},
		}

		svc := NewVerifyService(&mockCredentials{}, store, noopLogger)
		err := svc.VerifyPayment(context.Background(), validParams(regID))

		var paymentErr *Error
		assert.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, REASON_PAYMENT_CONFLICT, paymentErr.Reason)
	})

	t.Run("store failure on confirm is a persistence error", func(t *testing.T) {
		store := &mockVerifyStore{
			ConfirmRegistrationPaymentFunc: func(ctx context.Context, id uuid.UUID, paymentID string) error {
				return errors.New("dynamo is down")
			},
		}

		svc := NewVerifyService(&mockCredentials{}, store, noopLogger)
		err := svc.VerifyPayment(context.Background(), validParams(regID))

		var paymentErr *Error
		assert.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, REASON_PERSISTENCE, paymentErr.Reason)
	})
}
