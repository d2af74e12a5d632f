package main

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/tesseract-fest/event-registration/api"
	"github.com/tesseract-fest/event-registration/email"
	"github.com/tesseract-fest/event-registration/email/awsses"
)

var _ email.Sender = &EmailLogger{}

// email.Sender that logs out the email contents for local dev
type EmailLogger struct {
	logger *slog.Logger
}

func (el *EmailLogger) SendEmail(ctx context.Context, e email.Email) error {
	el.logger.Info("email that would be sent", slog.Any("email", e))

	return nil
}

func createEmailSender(cfg aws.Config, logger *slog.Logger, env api.Environment) email.Sender {
	if env == api.LOCAL {
		return &EmailLogger{logger: logger}
	}

	return awsses.NewAWSSESSender(sesv2.NewFromConfig(cfg))
}
