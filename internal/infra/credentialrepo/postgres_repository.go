package credentialrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/outfitcast/internal/domain/credential"
)

// PostgresRepository persists sealed provider keys in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new credential row.
func (r *PostgresRepository) Create(ctx context.Context, cred credential.Credential) (credential.Credential, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO provider_credentials (id, provider, sealed_key, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, provider, sealed_key, created_at
	`, cred.ID, cred.Provider, cred.Sealed, cred.CreatedAt)
	return scanCredential(row)
}

// Get fetches by primary key.
func (r *PostgresRepository) Get(ctx context.Context, id string) (credential.Credential, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, provider, sealed_key, created_at
		FROM provider_credentials
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return credential.Credential{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return credential.Credential{}, false, rows.Err()
	}
	cred, err := scanCredential(rows)
	if err != nil {
		return credential.Credential{}, false, err
	}
	return cred, true, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (credential.Credential, error) {
	var cred credential.Credential
	var created time.Time
	if err := row.Scan(&cred.ID, &cred.Provider, &cred.Sealed, &created); err != nil {
		return credential.Credential{}, err
	}
	cred.CreatedAt = created.UTC()
	return cred, nil
}

var _ credential.Repository = (*PostgresRepository)(nil)
