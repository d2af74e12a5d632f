package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/tesseract-fest/event-registration/payments"
)

const (
	secretRazorpayKeyID     = "RAZORPAY_KEY_ID"
	secretRazorpayKeySecret = "RAZORPAY_KEY_SECRET"
	secretIdentityJWT       = "IDENTITY_JWT_SECRET"
	secretServiceAPIKey     = "SERVICE_API_KEY"
)

type secretSource interface {
	Get(ctx context.Context, name string) (string, error)
}

// envSecretSource reads secrets straight from the environment, for local dev.
type envSecretSource struct{}

func (envSecretSource) Get(_ context.Context, name string) (string, error) {
	return os.Getenv(name), nil
}

// ssmSecretSource reads secrets from SSM Parameter Store under a common
// prefix. Values are resolved when asked for, so a missing parameter shows
// up as a configuration error on the request that needed it.
type ssmSecretSource struct {
	client *ssm.Client
	prefix string
}

func (s *ssmSecretSource) Get(ctx context.Context, name string) (string, error) {
	resp, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.prefix + name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %q from SSM: %w", s.prefix+name, err)
	}

	return aws.ToString(resp.Parameter.Value), nil
}

var _ payments.Credentials = sourceCredentials{}

type sourceCredentials struct {
	source secretSource
}

func (c sourceCredentials) KeyID(ctx context.Context) (string, error) {
	return c.source.Get(ctx, secretRazorpayKeyID)
}

func (c sourceCredentials) KeySecret(ctx context.Context) (string, error) {
	return c.source.Get(ctx, secretRazorpayKeySecret)
}
