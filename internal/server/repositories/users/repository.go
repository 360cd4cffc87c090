// Package users declares the server-side user store and its PostgreSQL and
// in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/agentdesk/internal/server/models"
)

type Repository interface {
	// Create stores user, filling in ID and timestamps. A taken email or
	// username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByLogin matches login against username or email (case-insensitive
	// for email).
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}
