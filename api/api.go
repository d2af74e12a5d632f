package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tesseract-fest/event-registration/email"
	"github.com/tesseract-fest/event-registration/payments"
	"github.com/tesseract-fest/event-registration/profiles"
	"github.com/tesseract-fest/event-registration/registration"
	"github.com/tesseract-fest/event-registration/tickets"
)

type Environment int

const (
	LOCAL Environment = iota
	PROD
)

type DB interface {
	tickets.Repository
	profiles.Repository
	registration.Repository
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, params payments.CreateOrderParams) (payments.OrderResult, error)
}

type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, params payments.VerifyPaymentParams) error
}

type API struct {
	db          DB
	logger      *slog.Logger
	env         Environment
	auth        TokenValidator
	apiKey      string
	orders      OrderCreator
	verifier    PaymentVerifier
	emailSender email.Sender
	fromAddress string
}

func NewAPI(
	db DB,
	logger *slog.Logger,
	env Environment,
	auth TokenValidator,
	apiKey string,
	orders OrderCreator,
	verifier PaymentVerifier,
	emailSender email.Sender,
) *API {
	return &API{
		db:          db,
		logger:      logger,
		env:         env,
		auth:        auth,
		apiKey:      apiKey,
		orders:      orders,
		verifier:    verifier,
		emailSender: emailSender,
		fromAddress: "TESSERACT <noreply@tesseractfest.in>",
	}
}

func (a *API) Handler() http.Handler {
	r := http.NewServeMux()

	r.HandleFunc("/payments/order", a.createOrderHandler)
	r.HandleFunc("/payments/verify", a.verifyPaymentHandler)
	r.HandleFunc("/registrations", a.createRegistrationHandler)

	// Middlewares wrap outward: the last one in this list sees the
	// request first.
	return useMiddlewares(r,
		a.authMiddleware(),
		a.loggingMiddleware(),
		a.requestIdMiddleware(),
		a.corsMiddleware(),
	)
}
