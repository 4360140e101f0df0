package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/internal/domain"
	"github.com/CTNinc/keinomori-summerlp2025/internal/token"
)

type tokenUsecase struct {
	store token.Store
	ttl   time.Duration
}

// NewTokenUsecase creates a token usecase over the given store
func NewTokenUsecase(store token.Store, ttl time.Duration) domain.TokenUsecase {
	return &tokenUsecase{store: store, ttl: ttl}
}

func (uc *tokenUsecase) Issue(ctx context.Context) (string, error) {
	t, err := token.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := uc.store.Save(ctx, t, uc.ttl); err != nil {
		return "", err
	}
	return t, nil
}

func (uc *tokenUsecase) Verify(ctx context.Context, t string) error {
	if t == "" {
		return domain.ErrTokenMissing
	}
	ok, err := uc.store.Exists(ctx, t)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	if !ok {
		return domain.ErrTokenInvalid
	}
	return nil
}
