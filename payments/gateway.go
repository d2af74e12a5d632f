package payments

import "context"

// Order is the gateway-side reservation of an amount to be paid. It is not
// persisted here beyond storing its ID on the registration; the gateway
// remains the source of truth for it.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// Gateway is the payment provider. Amounts are in the gateway's minor
// currency unit. Implementations do not retry; retries are the caller's
// responsibility.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, receipt string, notes map[string]string) (Order, error)
	FetchOrder(ctx context.Context, orderID string) (Order, error)
}

// Credentials supplies the gateway key pair. Resolution happens per request
// so that a missing credential surfaces as a configuration error on the
// request that needed it, and rotated keys take effect without a restart.
type Credentials interface {
	KeyID(ctx context.Context) (string, error)
	KeySecret(ctx context.Context) (string, error)
}
