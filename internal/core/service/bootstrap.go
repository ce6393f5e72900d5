package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// AdminSeed describes the account created on first start when no admin exists.
type AdminSeed struct {
	Login    string
	Password string
	FullName string
}

// BootstrapAdmin makes sure at least one admin exists. It is a no-op when the
// seed is incomplete or an admin is already present. An existing account
// with the seed login is promoted rather than recreated.
func BootstrapAdmin(ctx context.Context, users ports.UserRepository, hasher *PasswordHasher, seed AdminSeed, log zerolog.Logger) error {
	if seed.Login == "" || seed.Password == "" {
		log.Debug().Msg("admin bootstrap skipped: no seed configured")
		return nil
	}

	hasAdmin, err := users.HasAdmin(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if hasAdmin {
		return nil
	}

	existing, err := users.FindByLogin(ctx, seed.Login)
	switch {
	case err == nil:
		if _, err := users.Update(ctx, existing.ID, domain.Fields{"role": string(domain.RoleAdmin)}); err != nil {
			return fmt.Errorf("bootstrap admin: promote: %w", err)
		}
		log.Info().Int64("user_id", existing.ID).Str("login", seed.Login).Msg("existing user promoted to admin")
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	fullName := seed.FullName
	if fullName == "" {
		fullName = "Administrator"
	}

	created, err := users.Create(ctx, &domain.User{
		FullName:     fullName,
		Login:        seed.Login,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	log.Info().Int64("user_id", created.ID).Str("login", created.Login).Msg("admin account created")
	return nil
}
