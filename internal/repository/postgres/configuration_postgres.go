package postgres

import (
	"context"
	"database/sql"

	"dehusync/internal/model"
	"dehusync/internal/repository"
)

// ConfigurationPostgres is a PostgreSQL implementation of repository.ConfigurationRepository.
type ConfigurationPostgres struct {
	db *sql.DB
}

// NewConfigurationPostgres creates a new ConfigurationPostgres repository.
func NewConfigurationPostgres(db *sql.DB) *ConfigurationPostgres {
	return &ConfigurationPostgres{db: db}
}

var _ repository.ConfigurationRepository = (*ConfigurationPostgres)(nil)

// FindActive returns the active configuration with the lowest id.
func (r *ConfigurationPostgres) FindActive(ctx context.Context) (*model.Configuration, error) {
	const q = `
		SELECT id, name, environment, api_key, certificate, certificate_filename,
		       company_name, company_tax_id, active
		FROM configurations
		WHERE active = TRUE
		ORDER BY id
		LIMIT 1
	`
	var c model.Configuration
	var env string
	if err := r.db.QueryRowContext(ctx, q).Scan(
		&c.ID,
		&c.Name,
		&env,
		&c.APIKey,
		&c.Certificate,
		&c.CertificateFilename,
		&c.CompanyName,
		&c.CompanyTaxID,
		&c.Active,
	); err != nil {
		return nil, err
	}
	c.Environment = model.Environment(env)
	return &c, nil
}
