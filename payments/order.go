package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const Currency = money.INR

// OrderStore is the slice of the registration store the order service needs.
type OrderStore interface {
	SetRazorpayOrderID(ctx context.Context, id uuid.UUID, orderID string) error
}

type CreateOrderParams struct {
	// Amount is the ticket price in rupees, as submitted by the client.
	Amount         float64
	UserID         string
	RegistrationID string
}

type OrderResult struct {
	OrderID string
	Amount  *money.Money
}

type OrderService struct {
	gateway Gateway
	store   OrderStore
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewOrderService(gateway Gateway, store OrderStore, logger *slog.Logger) *OrderService {
	return &OrderService{
		gateway: gateway,
		store:   store,
		logger:  logger,
		tracer:  otel.Tracer("payments"),
	}
}

// CreateOrder creates a gateway order for a pending registration and records
// the order reference on the registration row. The order reference write is
// best effort: the order already exists at the gateway, so failing the whole
// operation over it would only stop the attendee from paying.
func (s *OrderService) CreateOrder(ctx context.Context, params CreateOrderParams) (OrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "CreateOrder")
	defer span.End()

	if params.Amount <= 0 {
		return OrderResult{}, NewValidationError("Amount must be greater than zero")
	}
	if params.UserID == "" {
		return OrderResult{}, NewValidationError("Missing user ID")
	}
	if params.RegistrationID == "" {
		return OrderResult{}, NewValidationError("Missing registration ID")
	}

	registrationID, err := uuid.Parse(params.RegistrationID)
	if err != nil {
		return OrderResult{}, NewValidationError(fmt.Sprintf("Registration ID %q is not a valid UUID", params.RegistrationID))
	}

	if s.gateway == nil || s.store == nil {
		return OrderResult{}, NewConfigurationError("Payment service is not configured", nil)
	}

	amountMinorUnits := toMinorUnits(params.Amount)
	receipt := makeReceipt(params.RegistrationID)

	order, err := s.gateway.CreateOrder(ctx, amountMinorUnits, Currency, receipt, map[string]string{
		"registration_id": params.RegistrationID,
		"user_id":         params.UserID,
	})
	if err != nil {
		var paymentErr *Error
		if errors.As(err, &paymentErr) {
			return OrderResult{}, err
		}
		return OrderResult{}, NewUpstreamError("Failed to create order", err)
	}

	s.logger.InfoContext(ctx, "Gateway order created",
		slog.String("orderId", order.ID),
		slog.String("registrationId", params.RegistrationID),
	)

	err = s.store.SetRazorpayOrderID(ctx, registrationID, order.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to record order ID on registration",
			slog.String("orderId", order.ID),
			slog.String("registrationId", params.RegistrationID),
			slog.String("error", err.Error()),
		)
	}

	return OrderResult{
		OrderID: order.ID,
		Amount:  money.New(order.Amount, order.Currency),
	}, nil
}

// toMinorUnits converts a rupee amount to paise, rounding half up.
func toMinorUnits(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

// makeReceipt builds the advisory receipt identifier sent to the gateway.
// It only needs to be unique enough for gateway-side bookkeeping.
func makeReceipt(registrationID string) string {
	return fmt.Sprintf("reg_%s_%d", registrationID[:8], time.Now().UnixMilli())
}
