package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tesseract-fest/event-registration/registration"
)

type createRegistrationRequest struct {
	TicketID     string         `json:"ticket_id"`
	FormData     map[string]any `json:"form_data"`
	ReferralCode string         `json:"referral_code"`
}

type createRegistrationResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Code    string `json:"code"`
	Status  string `json:"status"`
}

func (a *API) createRegistrationHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims, ok := getClaimsFromCtx(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing caller identity")
		return
	}

	var req createRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Ticket ID is not a valid UUID")
		return
	}

	reg, err := registration.AttemptRegistration(ctx, registration.RegistrationRequest{
		UserID:       claims.UserID,
		TicketID:     ticketID,
		FormData:     req.FormData,
		ReferralCode: req.ReferralCode,
	}, a.db, a.db, a.db)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create registration",
			slog.String("ticketId", req.TicketID),
			slog.String("error", err.Error()),
		)

		var registrationErr *registration.Error
		if errors.As(err, &registrationErr) {
			switch registrationErr.Reason {
			case registration.REASON_ASSOCIATED_TICKET_DOES_NOT_EXIST:
				writeError(w, http.StatusNotFound, "Ticket not found")
				return
			case registration.REASON_PROFILE_DOES_NOT_EXIST:
				writeError(w, http.StatusNotFound, "Profile not found")
				return
			case registration.REASON_TICKET_NOT_ACTIVE,
				registration.REASON_MISSING_REQUIRED_FIELDS,
				registration.REASON_INVALID_REFERRAL_CODE:
				writeError(w, http.StatusBadRequest, registrationErr.Message)
				return
			}
		}

		writeError(w, http.StatusInternalServerError, "Failed to create registration")
		return
	}

	// A free ticket is confirmed right away, so the confirmation email
	// goes out here. The registration already exists; an email failure
	// is logged but never turns the response into an error.
	if reg.Status == registration.STATUS_CONFIRMED {
		a.sendConfirmationEmail(r, reg, claims)
	}

	writeJSON(w, http.StatusOK, createRegistrationResponse{
		Success: true,
		ID:      reg.ID.String(),
		Code:    reg.Code,
		Status:  string(reg.Status),
	})
}

func (a *API) sendConfirmationEmail(r *http.Request, reg registration.Registration, claims Claims) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	ticket, err := a.db.GetTicket(ctx, reg.TicketID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get ticket to send confirmation email with",
			slog.String("ticketId", reg.TicketID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	err = registration.SendRegistrationConfirmationEmail(ctx, a.emailSender, a.fromAddress, claims.Email, reg, ticket)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to send confirmation email",
			slog.String("registrationId", reg.ID.String()),
			slog.String("email", claims.Email),
			slog.String("error", err.Error()),
		)
	}
}
