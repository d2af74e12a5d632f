package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/tesseract-fest/event-registration/api"
	"github.com/tesseract-fest/event-registration/dynamo"
	"github.com/tesseract-fest/event-registration/payments"
	"github.com/tesseract-fest/event-registration/razorpay"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	env := environmentFromEnv()

	cfg, err := loadAWSConfig(ctx, env)
	if err != nil {
		logger.Error("Failed to load AWS config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db := dynamo.NewDB(
		dynamoClient(cfg, env),
		getEnvOrDefault("TABLE_NAME", "TesseractRegistration"),
	)

	secrets := secretSourceForEnv(cfg, env)
	gatewayCreds := sourceCredentials{source: secrets}

	orders := payments.NewOrderService(razorpay.NewClient(gatewayCreds), db, logger)
	verifier := payments.NewVerifyService(gatewayCreds, db, logger)

	auth := api.NewHS256Validator(func(ctx context.Context) (string, error) {
		return secrets.Get(ctx, secretIdentityJWT)
	})

	apiKey, err := secrets.Get(ctx, secretServiceAPIKey)
	if err != nil {
		logger.Error("Failed to load service API key", slog.String("error", err.Error()))
		os.Exit(1)
	}

	emailSender := createEmailSender(cfg, logger, env)

	a := api.NewAPI(db, logger, env, auth, apiKey, orders, verifier, emailSender)

	serverSettings := getServerSettingsFromEnv()
	s := &http.Server{
		Handler: a.Handler(),
		Addr:    net.JoinHostPort(serverSettings.Host, serverSettings.Port),
	}

	logger.Info("Starting server", slog.String("addr", s.Addr))
	log.Fatal(s.ListenAndServe())
}

func environmentFromEnv() api.Environment {
	if getEnvOrDefault("ENV", "local") == "prod" {
		return api.PROD
	}

	return api.LOCAL
}

func loadAWSConfig(ctx context.Context, env api.Environment) (aws.Config, error) {
	if env == api.LOCAL {
		// Local DynamoDB does not check credentials, but the SDK
		// insists on having some.
		return config.LoadDefaultConfig(ctx,
			config.WithRegion(getEnvOrDefault("AWS_REGION", "ap-south-1")),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")),
		)
	}

	return config.LoadDefaultConfig(ctx)
}

func dynamoClient(cfg aws.Config, env api.Environment) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if env == api.LOCAL {
			o.BaseEndpoint = aws.String(getEnvOrDefault("DYNAMO_ENDPOINT", "http://localhost:8000"))
		}
	})
}

func secretSourceForEnv(cfg aws.Config, env api.Environment) secretSource {
	if env == api.LOCAL {
		return envSecretSource{}
	}

	return &ssmSecretSource{
		client: ssm.NewFromConfig(cfg),
		prefix: getEnvOrDefault("SSM_PREFIX", "/tesseract/"),
	}
}

type ServerSettings struct {
	Host string
	Port string
}

func getServerSettingsFromEnv() ServerSettings {
	return ServerSettings{
		Host: getEnvOrDefault("HOST", "0.0.0.0"),
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return defaultVal
}
