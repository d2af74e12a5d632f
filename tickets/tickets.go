package tickets

import (
	"context"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

type Ticket struct {
	ID               uuid.UUID
	Version          int
	Title            string
	Description      *string
	Price            *money.Money
	Active           bool
	FormFields       []FormField
	MaxRegistrations *int
	CreatedAt        time.Time
}

// IsFree reports whether registering for this ticket requires no payment.
func (t Ticket) IsFree() bool {
	return t.Price == nil || t.Price.IsZero()
}

type Repository interface {
	GetTicket(ctx context.Context, id uuid.UUID) (Ticket, error)
	CreateTicket(ctx context.Context, ticket Ticket) error
}
