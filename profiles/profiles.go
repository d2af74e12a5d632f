package profiles

import (
	"context"

	"github.com/google/uuid"
)

type Profile struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	Phone        string
	ReferralCode *string
}

type Repository interface {
	GetProfile(ctx context.Context, id uuid.UUID) (Profile, error)
	GetProfileByReferralCode(ctx context.Context, code string) (Profile, error)
	CreateProfile(ctx context.Context, profile Profile) error
}
