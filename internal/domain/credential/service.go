package credential

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/outfitcast/pkg/errors"
	"github.com/yanqian/outfitcast/pkg/util"
)

// Service stores provider keys server-side and hands out opaque ids.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (View, error)
	Resolve(ctx context.Context, id string) (string, error)
}

type service struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With("component", "credential.service"),
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (View, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider == "" {
		provider = ProviderKMA
	}
	if provider != ProviderKMA {
		return View{}, apperrors.Wrap("invalid_input", "unsupported provider: "+provider, nil)
	}
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return View{}, apperrors.Wrap("invalid_input", "key is required", nil)
	}

	id := uuid.NewString()
	sealed, err := sealKey(s.cfg.EncryptionKey, id, key)
	if err != nil {
		return View{}, apperrors.Wrap("credential_error", "failed to seal key", err)
	}
	cred, err := s.repo.Create(ctx, Credential{
		ID:        id,
		Provider:  provider,
		Sealed:    sealed,
		CreatedAt: util.NowUTC(),
	})
	if err != nil {
		return View{}, apperrors.Wrap("credential_error", "failed to store key", err)
	}
	s.logger.Info("credential registered", "id", cred.ID, "provider", cred.Provider)
	return cred.view(), nil
}

func (s *service) Resolve(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.Wrap("credential_not_found", "credential not found", ErrNotFound)
	}
	cred, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", apperrors.Wrap("credential_error", "failed to load credential", err)
	}
	if !ok {
		return "", apperrors.Wrap("credential_not_found", "credential not found", ErrNotFound)
	}
	key, err := openKey(s.cfg.EncryptionKey, cred.ID, cred.Sealed)
	if err != nil {
		s.logger.Error("credential could not be opened", "id", cred.ID, "error", err)
		return "", apperrors.Wrap("credential_error", "failed to open credential", err)
	}
	return key, nil
}
