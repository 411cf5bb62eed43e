package store

import (
	"context"

	"github.com/joescharf/portfolio/internal/models"
)

// Store defines the persistence interface for portfolio.
type Store interface {
	// Contact form
	SaveContactMessage(ctx context.Context, msg *models.ContactMessage) error
	ListContactMessages(ctx context.Context, limit int) ([]*models.ContactMessage, error)
	CountContactMessages(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
