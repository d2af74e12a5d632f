// Package flow drives the attendee-facing registration sequence: validate
// the form, create the registration, and for priced tickets walk the payment
// steps against the checkout widget. The controller makes no trust
// decisions; those all live server side.
package flow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/tesseract-fest/event-registration/payments"
	"github.com/tesseract-fest/event-registration/registration"
	"github.com/tesseract-fest/event-registration/tickets"
)

type Registrar interface {
	AttemptRegistration(ctx context.Context, req registration.RegistrationRequest) (registration.Registration, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, params payments.CreateOrderParams) (payments.OrderResult, error)
}

type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, params payments.VerifyPaymentParams) error
}

type Checkout struct {
	OrderID     string
	Amount      *money.Money
	Name        string
	Description string
}

// CheckoutEvents is the full set of outcomes the widget can report:
// completed with a confirmation, dismissed by the attendee, or failed.
// Exactly one of them fires per Open call.
type CheckoutEvents struct {
	OnCompleted func(confirmation payments.PaymentConfirmation)
	OnDismissed func()
	OnFailed    func(reason string)
}

type CheckoutWidget interface {
	Open(ctx context.Context, checkout Checkout, events CheckoutEvents) error
}

// Controller owns the flow state machine. It is event driven and not
// goroutine safe: drive it from a single goroutine, the way a browser event
// loop would.
type Controller struct {
	registrar Registrar
	orders    OrderCreator
	verifier  PaymentVerifier
	widget    CheckoutWidget
	logger    *slog.Logger

	state   State
	busy    bool
	reg     registration.Registration
	lastErr error
}

func NewController(registrar Registrar, orders OrderCreator, verifier PaymentVerifier, widget CheckoutWidget, logger *slog.Logger) *Controller {
	return &Controller{
		registrar: registrar,
		orders:    orders,
		verifier:  verifier,
		widget:    widget,
		logger:    logger,
		state:     STATE_IDLE,
	}
}

func (c *Controller) State() State {
	return c.state
}

// Registration returns the registration created by the last submission.
func (c *Controller) Registration() registration.Registration {
	return c.reg
}

// Err returns the error that moved the controller to STATE_FAILED, if any.
func (c *Controller) Err() error {
	return c.lastErr
}

// Submit runs the registration flow for one form submission. A second call
// while a previous one is still outstanding is rejected. For a free ticket
// the flow finishes at registration creation; for a priced ticket it runs
// order creation, opens the checkout widget, and verifies the confirmation
// the widget reports.
func (c *Controller) Submit(ctx context.Context, req registration.RegistrationRequest, ticket tickets.Ticket) error {
	if c.busy {
		return NewSubmissionInFlightError()
	}
	c.busy = true
	c.lastErr = nil

	if err := c.validateForm(req, ticket); err != nil {
		c.busy = false
		return err
	}
	c.state = STATE_FORM_VALIDATED

	reg, err := c.registrar.AttemptRegistration(ctx, req)
	if err != nil {
		return c.fail(NewRegistrationFailedError(err))
	}
	c.reg = reg
	c.state = STATE_REGISTRATION_CREATED

	if ticket.IsFree() {
		c.state = STATE_DONE
		c.busy = false
		return nil
	}

	c.state = STATE_ORDER_REQUESTED
	order, err := c.orders.CreateOrder(ctx, payments.CreateOrderParams{
		Amount:         ticket.Price.AsMajorUnits(),
		UserID:         req.UserID.String(),
		RegistrationID: reg.ID.String(),
	})
	if err != nil {
		return c.fail(NewOrderFailedError(err))
	}

	c.state = STATE_WIDGET_OPEN
	err = c.widget.Open(ctx, Checkout{
		OrderID:     order.OrderID,
		Amount:      order.Amount,
		Name:        "TESSERACT",
		Description: "Registration for " + ticket.Title,
	}, CheckoutEvents{
		OnCompleted: func(confirmation payments.PaymentConfirmation) {
			c.verify(ctx, reg, confirmation)
		},
		OnDismissed: func() {
			// The registration stays pending and can be paid later; no
			// server calls happen on a dismissal.
			c.logger.InfoContext(ctx, "Checkout dismissed by attendee",
				slog.String("registrationId", reg.ID.String()),
			)
			c.state = STATE_CANCELLED
			c.busy = false
		},
		OnFailed: func(reason string) {
			c.fail(NewWidgetFailedError(reason, nil))
		},
	})
	if err != nil {
		return c.fail(NewWidgetFailedError("Failed to open checkout", err))
	}

	return nil
}

func (c *Controller) verify(ctx context.Context, reg registration.Registration, confirmation payments.PaymentConfirmation) {
	c.state = STATE_VERIFYING

	err := c.verifier.VerifyPayment(ctx, payments.VerifyPaymentParams{
		OrderID:        confirmation.OrderID,
		PaymentID:      confirmation.PaymentID,
		Signature:      confirmation.Signature,
		RegistrationID: reg.ID.String(),
	})
	if err != nil {
		c.fail(NewVerificationFailedError(err))
		return
	}

	c.state = STATE_DONE
	c.busy = false
}

func (c *Controller) validateForm(req registration.RegistrationRequest, ticket tickets.Ticket) error {
	var missing []string
	for _, field := range ticket.FormFields {
		if field.Required && !field.IsAnswered(req.FormData[field.ID]) {
			missing = append(missing, field.Label)
		}
	}
	if len(missing) > 0 {
		return NewInvalidFormError("Please fill in: " + strings.Join(missing, ", "))
	}
	return nil
}

func (c *Controller) fail(err *Error) error {
	c.logger.Error("Registration flow failed", slog.String("error", err.Error()))
	c.state = STATE_FAILED
	c.lastErr = err
	c.busy = false
	return err
}
