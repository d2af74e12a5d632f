package registration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesseract-fest/event-registration/email"
	"github.com/tesseract-fest/event-registration/tickets"
)

type capturingSender struct {
	sent []email.Email
}

func (s *capturingSender) SendEmail(ctx context.Context, e email.Email) error {
	s.sent = append(s.sent, e)
	return nil
}

func TestSendRegistrationConfirmationEmail(t *testing.T) {
	reg := Registration{
		ID:     uuid.New(),
		Code:   "AB12CD34EF",
		Status: STATUS_CONFIRMED,
	}
	ticket := tickets.Ticket{
		ID:    uuid.New(),
		Title: "Day Pass",
	}

	sender := &capturingSender{}
	err := SendRegistrationConfirmationEmail(context.Background(), sender, "TESSERACT <noreply@tesseractfest.in>", "attendee@example.com", reg, ticket)

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	e := sender.sent[0]
	assert.Equal(t, "TESSERACT <noreply@tesseractfest.in>", e.FromAddress)
	assert.Equal(t, []string{"attendee@example.com"}, e.ToAddresses)
	assert.Contains(t, e.Subject, "Day Pass")

	assert.Contains(t, e.HTMLBody, "AB12CD34EF")
	assert.Contains(t, e.HTMLBody, "Day Pass")
	assert.Contains(t, e.TextBody, "AB12CD34EF")
	assert.Contains(t, e.TextBody, "Day Pass")
}
