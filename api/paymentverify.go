package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tesseract-fest/event-registration/payments"
)

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	RegistrationID    string `json:"registration_id"`
}

type verifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (a *API) verifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := a.verifier.VerifyPayment(ctx, payments.VerifyPaymentParams{
		OrderID:        req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
		RegistrationID: req.RegistrationID,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to verify payment",
			slog.String("registrationId", req.RegistrationID),
			slog.String("paymentId", req.RazorpayPaymentID),
			slog.String("error", err.Error()),
		)

		var paymentErr *payments.Error
		if errors.As(err, &paymentErr) {
			switch paymentErr.Reason {
			case payments.REASON_VALIDATION:
				writeError(w, http.StatusBadRequest, paymentErr.Message)
				return
			case payments.REASON_SIGNATURE:
				writeError(w, http.StatusBadRequest, "Invalid payment signature")
				return
			case payments.REASON_REGISTRATION_DOES_NOT_EXIST:
				writeError(w, http.StatusNotFound, "Registration not found")
				return
			case payments.REASON_PAYMENT_CONFLICT:
				writeError(w, http.StatusConflict, "Registration already holds a different payment")
				return
			case payments.REASON_CONFIGURATION:
				writeError(w, http.StatusInternalServerError, "Payment service not configured")
				return
			}
		}

		writeError(w, http.StatusInternalServerError, "Payment verification failed")
		return
	}

	writeJSON(w, http.StatusOK, verifyPaymentResponse{
		Success: true,
		Message: "Payment verified and registration confirmed",
	})
}
