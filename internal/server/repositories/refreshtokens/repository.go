// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/server/models"
)

// Repository defines operations for issuing, rotating and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find looks up a refresh token by its opaque token string.
	// Returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Consume atomically deletes the token and returns what it was. Two
	// concurrent calls with the same token cannot both succeed; the loser
	// gets common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteByUser revokes every refresh token of userID.
	DeleteByUser(ctx context.Context, userID string) error
}
