package credential

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/outfitcast/pkg/errors"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestRegisterAndResolve(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(Config{EncryptionKey: testKey}, repo, discardLogger())

	view, err := svc.Register(context.Background(), RegisterRequest{Key: "  my-kma-key  "})
	require.NoError(t, err)
	require.Equal(t, ProviderKMA, view.Provider)
	require.Len(t, view.ID, 36)
	require.False(t, view.CreatedAt.IsZero())

	stored := repo.items[view.ID]
	require.NotContains(t, stored.Sealed, "my-kma-key")

	key, err := svc.Resolve(context.Background(), view.ID)
	require.NoError(t, err)
	require.Equal(t, "my-kma-key", key)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := NewService(Config{EncryptionKey: testKey}, newStubRepo(), discardLogger())

	_, err := svc.Register(context.Background(), RegisterRequest{Key: "   "})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Register(context.Background(), RegisterRequest{Provider: "openmeteo", Key: "x"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestRegisterRejectsBadEncryptionKey(t *testing.T) {
	svc := NewService(Config{EncryptionKey: "short"}, newStubRepo(), discardLogger())
	_, err := svc.Register(context.Background(), RegisterRequest{Key: "x"})
	require.True(t, apperrors.IsCode(err, "credential_error"))
}

func TestRegisterRepositoryFailure(t *testing.T) {
	repo := newStubRepo()
	repo.err = errors.New("db down")
	svc := NewService(Config{EncryptionKey: testKey}, repo, discardLogger())

	_, err := svc.Register(context.Background(), RegisterRequest{Key: "x"})
	require.True(t, apperrors.IsCode(err, "credential_error"))
}

func TestResolveUnknownOrMalformedID(t *testing.T) {
	svc := NewService(Config{EncryptionKey: testKey}, newStubRepo(), discardLogger())

	_, err := svc.Resolve(context.Background(), "not-a-uuid")
	require.True(t, apperrors.IsCode(err, "credential_not_found"))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Resolve(context.Background(), "5b0e3a4e-6c0e-4a8b-9a53-3f0f7f1f2f10")
	require.True(t, apperrors.IsCode(err, "credential_not_found"))
}

func TestResolveRejectsSwappedCiphertext(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(Config{EncryptionKey: testKey}, repo, discardLogger())

	a, err := svc.Register(context.Background(), RegisterRequest{Key: "key-a"})
	require.NoError(t, err)
	b, err := svc.Register(context.Background(), RegisterRequest{Key: "key-b"})
	require.NoError(t, err)

	moved := repo.items[b.ID]
	moved.Sealed = repo.items[a.ID].Sealed
	repo.items[b.ID] = moved

	_, err = svc.Resolve(context.Background(), b.ID)
	require.True(t, apperrors.IsCode(err, "credential_error"))
}

func TestSealUsesFreshNonce(t *testing.T) {
	first, err := sealKey(testKey, "id", "secret")
	require.NoError(t, err)
	second, err := sealKey(testKey, "id", "secret")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = openKey(testKey, "id", strings.Repeat("A", 8))
	require.ErrorIs(t, err, errSealedPayload)
}

type stubRepo struct {
	mu    sync.Mutex
	items map[string]Credential
	err   error
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[string]Credential)}
}

func (r *stubRepo) Create(_ context.Context, cred Credential) (Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Credential{}, r.err
	}
	r.items[cred.ID] = cred
	return cred, nil
}

func (r *stubRepo) Get(_ context.Context, id string) (Credential, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.items[id]
	return cred, ok, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
