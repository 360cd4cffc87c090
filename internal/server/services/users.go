// Package services contains the reference backend's business logic. This
// file implements UserService, which handles registration, login, profile
// lookup and the issuing and rotation of access and refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/agentdesk/internal/common"
	"github.com/dmitrijs2005/agentdesk/internal/cryptox"
	"github.com/dmitrijs2005/agentdesk/internal/dbx"
	"github.com/dmitrijs2005/agentdesk/internal/server/auth"
	"github.com/dmitrijs2005/agentdesk/internal/server/config"
	"github.com/dmitrijs2005/agentdesk/internal/server/models"
	"github.com/dmitrijs2005/agentdesk/internal/server/repositories/repomanager"
)

const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

var (
	ErrEmailTaken    = fmt.Errorf("email %w", common.ErrorAlreadyExists)
	ErrUsernameTaken = fmt.Errorf("username %w", common.ErrorAlreadyExists)
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// FieldError describes one rejected input field. Loc is the path to the
// field, e.g. ["body", "password"].
type FieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

// ValidationError is returned when registration input is rejected.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Msg)
	}
	return strings.Join(msgs, ", ")
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService. db may be nil when m keeps its
// data in memory; operations then run without a transaction.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

func (s *UserService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

func (s *UserService) conn() dbx.DBTX {
	if s.db == nil {
		return nil
	}
	return s.db
}

func validateRegistration(in RegisterInput) error {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Loc: []string{"body", field}, Msg: msg})
	}

	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		add("email", "Invalid email address")
	}

	switch n := utf8.RuneCountInString(in.Username); {
	case n == 0:
		add("username", "Username is required")
	case n < MinUsernameLength:
		add("username", "Username too short")
	case n > MaxUsernameLength:
		add("username", "Username too long")
	case strings.ContainsAny(in.Username, " @\t\n"):
		add("username", "Username contains invalid characters")
	}

	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		add("password", "Password too short")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Register validates in and creates the user. A taken email or username
// yields ErrEmailTaken or ErrUsernameTaken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.conn())

	if err := s.ensureFree(ctx, in.Email, ErrEmailTaken); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, in.Username, ErrUsernameTaken); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: cryptox.HashPassword(in.Password),
	}

	user, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) ensureFree(ctx context.Context, login string, taken error) error {
	_, err := s.repomanager.Users(s.conn()).GetByLogin(ctx, login)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return fmt.Errorf("error searching user: %w", err)
	}
}

// Login accepts either the username or the email. Unknown users and wrong
// passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.conn())
	user, err := repo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, s.conn(), user.ID)
}

// RefreshToken rotates refreshToken: the old token is consumed and a new
// pair issued in the same transaction. Unknown tokens yield
// common.ErrorUnauthorized. An expired token is still deleted, and the
// call returns common.ErrRefreshTokenExpired once that delete is committed.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var (
		tokenPair *TokenPair
		expired   bool
	)

	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}

		if token.ExpiredAt(time.Now()) {
			expired = true
			return nil
		}

		if _, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("error searching user: %w", err)
		}

		tokenPair, err = s.generateTokenPair(ctx, tx, token.UserID)
		if err != nil {
			return fmt.Errorf("error generating token pair: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, common.ErrRefreshTokenExpired
	}

	return tokenPair, nil
}

// Profile returns the user with userID.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.conn()).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout revokes every refresh token of userID. Access tokens already
// issued stay valid until they expire.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repomanager.RefreshTokens(s.conn()).DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}
	return nil
}

// VerifyAccessToken returns the user an access token was issued to.
func (s *UserService) VerifyAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) generateTokenPair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	err = s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTokenValidityDuration.Seconds()),
	}, nil
}
