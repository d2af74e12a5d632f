package registration

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/tesseract-fest/event-registration/email"
	"github.com/tesseract-fest/event-registration/tickets"
)

//go:embed templates
var templates embed.FS

func SendRegistrationConfirmationEmail(ctx context.Context, emailSender email.Sender, fromAddress string, toAddress string, reg Registration, ticket tickets.Ticket) error {
	htmlBody, err := makeHtmlBody(reg, ticket)
	if err != nil {
		return err
	}

	textOnlyBody, err := makeTextOnlyBody(reg, ticket)
	if err != nil {
		return err
	}

	return emailSender.SendEmail(ctx, email.Email{
		FromAddress: fromAddress,
		ToAddresses: []string{toAddress},
		Subject:     fmt.Sprintf("Registration confirmed - %q", ticket.Title),
		HTMLBody:    htmlBody,
		TextBody:    textOnlyBody,
	})
}

func makeHtmlBody(reg Registration, ticket tickets.Ticket) (string, error) {
	tmpl, err := template.ParseFS(templates, "templates/registration-confirmation.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"Registration": reg,
		"Ticket":       ticket,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return buf.String(), nil
}

func makeTextOnlyBody(reg Registration, ticket tickets.Ticket) (string, error) {
	tmpl, err := template.ParseFS(templates, "templates/registration-confirmation-textonly.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"Registration": reg,
		"Ticket":       ticket,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return buf.String(), nil
}
