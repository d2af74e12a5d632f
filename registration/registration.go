package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tesseract-fest/event-registration/profiles"
	"github.com/tesseract-fest/event-registration/tickets"
)

type Status string

const (
	STATUS_PENDING   Status = "pending"
	STATUS_CONFIRMED Status = "confirmed"
	STATUS_CANCELLED Status = "cancelled"
)

// A priced ticket produces a pending registration which only the payment
// verification path may move to confirmed. A free ticket is confirmed at
// creation and never enters the payment flow.
type Registration struct {
	ID      uuid.UUID
	Version int

	// Code is the human-facing 10 character alphanumeric identifier
	// shown to the attendee. The store enforces uniqueness.
	Code string

	UserID     uuid.UUID
	TicketID   uuid.UUID
	FormData   map[string]any
	Status     Status
	ReferredBy *string

	RazorpayOrderID   *string
	RazorpayPaymentID *string

	CheckedIn   bool
	CheckedInAt *time.Time
	CheckedInBy *uuid.UUID

	CreatedAt time.Time
}

type Repository interface {
	CreateRegistration(ctx context.Context, reg Registration) error
	GetRegistration(ctx context.Context, id uuid.UUID) (Registration, error)
	// SetRazorpayOrderID records the gateway order reference on the
	// registration row. Callers may treat a failure as non-fatal.
	SetRazorpayOrderID(ctx context.Context, id uuid.UUID, orderID string) error
	// ConfirmRegistrationPayment atomically sets the status to confirmed
	// and stores the payment reference. The write must not apply if a
	// different payment reference is already stored.
	ConfirmRegistrationPayment(ctx context.Context, id uuid.UUID, paymentID string) error
}

type RegistrationRequest struct {
	UserID       uuid.UUID
	TicketID     uuid.UUID
	FormData     map[string]any
	ReferralCode string
}

const createCodeAttempts = 5

// AttemptRegistration validates a registration request against the ticket's
// form schema and referral rules, then creates the registration row. The
// returned registration is confirmed for free tickets and pending for priced
// ones; the caller is responsible for driving pending registrations through
// the payment flow.
func AttemptRegistration(
	ctx context.Context,
	req RegistrationRequest,
	ticketRepo tickets.Repository,
	profileRepo profiles.Repository,
	regRepo Repository,
) (Registration, error) {
	ticket, err := ticketRepo.GetTicket(ctx, req.TicketID)
	if err != nil {
		var ticketErr *tickets.Error
		if errors.As(err, &ticketErr) {
			switch ticketErr.Reason {
			case tickets.REASON_TICKET_DOES_NOT_EXIST:
				return Registration{}, NewAssociatedTicketDoesNotExistError(fmt.Sprintf("Ticket does not exist with ID %q", req.TicketID), err)
			}
		}

		return Registration{}, NewFailedToFetchError(fmt.Sprintf("Failed to fetch ticket with ID %q", req.TicketID), err)
	}

	if !ticket.Active {
		return Registration{}, NewTicketNotActiveError(fmt.Sprintf("Ticket %q is not open for registration", ticket.ID))
	}

	if missing := missingRequiredFields(ticket, req.FormData); len(missing) > 0 {
		return Registration{}, NewMissingRequiredFieldsError(missing)
	}

	if _, err := profileRepo.GetProfile(ctx, req.UserID); err != nil {
		var profileErr *profiles.Error
		if errors.As(err, &profileErr) && profileErr.Reason == profiles.REASON_PROFILE_DOES_NOT_EXIST {
			return Registration{}, NewProfileDoesNotExistError(fmt.Sprintf("No profile found for user %q", req.UserID), err)
		}

		return Registration{}, NewFailedToFetchError(fmt.Sprintf("Failed to fetch profile for user %q", req.UserID), err)
	}

	referredBy, err := validateReferralCode(ctx, req.ReferralCode, profileRepo)
	if err != nil {
		return Registration{}, err
	}

	status := STATUS_PENDING
	if ticket.IsFree() {
		status = STATUS_CONFIRMED
	}

	reg := Registration{
		ID:         uuid.New(),
		Version:    1,
		UserID:     req.UserID,
		TicketID:   req.TicketID,
		FormData:   req.FormData,
		Status:     status,
		ReferredBy: referredBy,
		CreatedAt:  time.Now(),
	}

	// The code is random, so a collision is possible. The store rejects
	// duplicates and we retry with a fresh code.
	for attempt := 0; attempt < createCodeAttempts; attempt++ {
		reg.Code = GenerateCode()

		err = regRepo.CreateRegistration(ctx, reg)
		if err == nil {
			return reg, nil
		}

		var regErr *Error
		if errors.As(err, &regErr) && regErr.Reason == REASON_CODE_ALREADY_EXISTS {
			continue
		}

		return Registration{}, err
	}

	return Registration{}, NewFailedToWriteError(fmt.Sprintf("Could not find a free registration code after %d attempts", createCodeAttempts), err)
}

func missingRequiredFields(ticket tickets.Ticket, formData map[string]any) []string {
	var missing []string
	for _, field := range ticket.FormFields {
		if !field.Required {
			continue
		}
		if !field.IsAnswered(formData[field.ID]) {
			missing = append(missing, field.Label)
		}
	}
	return missing
}

func validateReferralCode(ctx context.Context, code string, profileRepo profiles.Repository) (*string, error) {
	if code == "" {
		return nil, nil
	}

	_, err := profileRepo.GetProfileByReferralCode(ctx, code)
	if err != nil {
		var profileErr *profiles.Error
		if errors.As(err, &profileErr) && profileErr.Reason == profiles.REASON_REFERRAL_CODE_DOES_NOT_EXIST {
			return nil, NewInvalidReferralCodeError(fmt.Sprintf("Referral code %q does not exist", code), err)
		}

		return nil, NewFailedToFetchError(fmt.Sprintf("Failed to look up referral code %q", code), err)
	}

	return &code, nil
}
