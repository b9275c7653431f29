package repository

import (
	"context"

	"dehusync/internal/model"
)

// ConfigurationRepository reads remote service configurations. Records are maintained elsewhere.
type ConfigurationRepository interface {
	// FindActive returns the first active configuration, or sql.ErrNoRows when there is none.
	FindActive(ctx context.Context) (*model.Configuration, error)
}
