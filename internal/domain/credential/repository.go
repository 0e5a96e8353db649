package credential

import (
	"context"
	"errors"
)

// ErrNotFound indicates no credential exists for the id.
var ErrNotFound = errors.New("credential not found")

// Repository abstracts credential persistence.
type Repository interface {
	Create(ctx context.Context, cred Credential) (Credential, error)
	Get(ctx context.Context, id string) (Credential, bool, error)
}
