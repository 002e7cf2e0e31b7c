package services

import (
	"context"
	"errors"

	"github.com/andrevilar/romaneio-api/internal/models"
)

// ResolvedOwner is the denormalized snapshot of an order's owner taken at
// resolution time. It is a cache with no invalidation: later changes to
// the user's profile only reach an order the next time that row is
// written and re-resolved.
type ResolvedOwner struct {
	OwnerID          string
	OwnerEmail       string
	OwnerDisplayName *string
	OwnerPhotoBase64 *string
}

type userByEmailLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// OwnerResolver maps the free-text email in an order's first column to a
// known user account.
type OwnerResolver struct {
	users userByEmailLookup
}

func NewOwnerResolver(users userByEmailLookup) *OwnerResolver {
	return &OwnerResolver{users: users}
}

// Resolve normalizes emailRaw and looks it up. An empty input resolves to
// the acting user. A miss yields OwnerID == "" so the order exists but is
// visible to no client account.
func (r *OwnerResolver) Resolve(ctx context.Context, emailRaw string, actingUser *models.User) (ResolvedOwner, error) {
	normalized := NormalizeEmail(emailRaw)
	if normalized == "" {
		return ResolvedOwner{
			OwnerID:    actingUser.ID.String(),
			OwnerEmail: actingUser.Email,
		}, nil
	}

	user, err := r.users.GetByEmail(ctx, normalized)
	if errors.Is(err, ErrUserNotFound) {
		return ResolvedOwner{OwnerID: "", OwnerEmail: normalized}, nil
	}
	if err != nil {
		return ResolvedOwner{}, err
	}

	return ResolvedOwner{
		OwnerID:          user.ID.String(),
		OwnerEmail:       normalized,
		OwnerDisplayName: user.DisplayName,
		OwnerPhotoBase64: user.PhotoBase64,
	}, nil
}
