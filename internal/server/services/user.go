// Package services contains server-side business logic. This file implements
// UserService: registration, password authentication, bearer token issuance,
// caller resolution and account maintenance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// UserService provides account and authentication operations.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an account. An email that is already taken yields
// common.ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return nil, common.ErrDuplicateEmail
		case !errors.Is(err, common.ErrorNotFound):
			return nil, fmt.Errorf("error searching user: %w", err)
		}

		u, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
		if err != nil {
			return nil, fmt.Errorf("error creating user: %w", err)
		}
		return u, nil
	})
}

// Authenticate returns the user owning email when password matches.
// Unknown emails and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// Login authenticates the user and returns a signed access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err := auth.GenerateToken(user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// ResolveCaller maps a bearer token onto the user it was issued for.
// Bad or expired tokens are reported as common.ErrorUnauthorized wrapping
// the cause; a subject that no longer exists yields common.ErrorNotFound.
func (s *UserService) ResolveCaller(ctx context.Context, token string) (*models.User, error) {
	email, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		return s.repomanager.Users(tx).GetByID(ctx, id)
	})
}

// UpdateUser applies the supplied fields only. A new password is hashed
// before it is stored; a new email owned by another account yields
// common.ErrDuplicateEmail.
func (s *UserService) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	var newHash string
	if upd.Password != nil {
		h, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		newHash = h
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if upd.Name != nil {
			user.Name = *upd.Name
		}
		if upd.Email != nil && *upd.Email != user.Email {
			other, err := repo.GetUserByEmail(ctx, *upd.Email)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, common.ErrDuplicateEmail
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return nil, fmt.Errorf("error searching user: %w", err)
			}
			user.Email = *upd.Email
		}
		if upd.Password != nil {
			user.PasswordHash = newHash
		}

		updated, err := repo.Update(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("error updating user: %w", err)
		}
		return updated, nil
	})
}

// DeleteUser removes the account (and, through the schema, its notes) and
// returns its last state.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("error deleting user: %w", err)
		}
		return user, nil
	})
}
