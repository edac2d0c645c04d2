package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/credential"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-blog-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-blog-go/pkg/utilities"
)

// Repository is the identity store consulted at registration and login.
type Repository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

var (
	ErrInvalidInput   = errors.New("name, email and password are required")
	ErrEmailTaken     = errors.New("email already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrBadCredentials = errors.New("invalid credentials")
)

// UserService orchestrates registration and login.
type UserService struct {
	repo   Repository
	hasher credential.Hasher
	issuer *session.Issuer
	newID  func() string
}

func NewUserService(repo Repository, hasher credential.Hasher, issuer *session.Issuer) *UserService {
	return &UserService{repo: repo, hasher: hasher, issuer: issuer, newID: utilities.NewSnowflakeID}
}

// Register creates an account. It does not issue a session; the client
// logs in separately.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*entity.UserView, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || password == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, database.ErrConflict) {
			if c := database.ConflictConstraint(err); c != "" {
				return nil, fmt.Errorf("%w: %s", ErrEmailTaken, c)
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u.View(), nil
}

// Login verifies credentials and issues a fresh access/refresh pair whose
// subject is the user id.
func (s *UserService) Login(ctx context.Context, email, password string) (session.Pair, *entity.UserView, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return session.Pair{}, nil, ErrUserNotFound
		}
		return session.Pair{}, nil, err
	}
	if err := s.hasher.Verify(password, u.PasswordHash); err != nil {
		return session.Pair{}, nil, ErrBadCredentials
	}
	pair, err := s.issuer.IssueSession(u.ID)
	if err != nil {
		return session.Pair{}, nil, err
	}
	return pair, u.View(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
