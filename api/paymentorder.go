package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tesseract-fest/event-registration/payments"
)

type createOrderRequest struct {
	Amount         float64 `json:"amount"`
	UserID         string  `json:"user_id"`
	RegistrationID string  `json:"registration_id"`
}

type createOrderResponse struct {
	Success  bool   `json:"success"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (a *API) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := a.orders.CreateOrder(ctx, payments.CreateOrderParams{
		Amount:         req.Amount,
		UserID:         req.UserID,
		RegistrationID: req.RegistrationID,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create order",
			slog.String("registrationId", req.RegistrationID),
			slog.String("error", err.Error()),
		)

		var paymentErr *payments.Error
		if errors.As(err, &paymentErr) {
			switch paymentErr.Reason {
			case payments.REASON_VALIDATION:
				writeError(w, http.StatusBadRequest, paymentErr.Message)
				return
			case payments.REASON_CONFIGURATION:
				writeError(w, http.StatusInternalServerError, "Payment service not configured")
				return
			case payments.REASON_UPSTREAM:
				writeError(w, http.StatusInternalServerError, paymentErr.Message)
				return
			}
		}

		writeError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	writeJSON(w, http.StatusOK, createOrderResponse{
		Success:  true,
		OrderID:  result.OrderID,
		Amount:   result.Amount.Amount(),
		Currency: result.Amount.Currency().Code,
	})
}
