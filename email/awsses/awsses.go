package awsses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/tesseract-fest/event-registration/email"
)

var _ email.Sender = &AWSSESSender{}

type AWSSESSender struct {
	client *sesv2.Client
}

func NewAWSSESSender(client *sesv2.Client) *AWSSESSender {
	return &AWSSESSender{
		client: client,
	}
}

func (s *AWSSESSender) SendEmail(ctx context.Context, e email.Email) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(e.FromAddress),
		Destination: &types.Destination{
			ToAddresses: e.ToAddresses,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data: aws.String(e.Subject),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data: aws.String(e.HTMLBody),
					},
					Text: &types.Content{
						Data: aws.String(e.TextBody),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email through SES: %w", err)
	}

	return nil
}
