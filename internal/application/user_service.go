package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
	"github.com/oksasatya/go-blog-clean-architecture/internal/session"
	"github.com/oksasatya/go-blog-clean-architecture/internal/uow"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/helpers"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/mailer"
)

// UserTable is the persistence surface the user flows need: the uow backend
// plus the secondary-key lookup used by login and the uniqueness check.
type UserTable interface {
	uow.Backend[int64, entity.User]
	SelectByUsername(ctx context.Context, username string) (*entity.User, error)
}

// UserService orchestrates registration, login/logout and the password
// self-update. Rabbit is optional; when absent the welcome email is skipped.
type UserService struct {
	Users    UserTable
	Sessions session.Store
	Logger   *logrus.Logger
	Rabbit   *helpers.RabbitPublisher
}

func NewUserService(users UserTable, sessions session.Store, logger *logrus.Logger, rabbit *helpers.RabbitPublisher) *UserService {
	return &UserService{Users: users, Sessions: sessions, Logger: logger, Rabbit: rabbit}
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// Register creates a new user. A taken username yields apperr.ErrConflict;
// the returned entity carries the generated id.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	existing, err := s.Users.SelectByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrConflict
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: in.Username, Password: hash, Email: in.Email}

	users := uow.NewStore[int64, entity.User](s.Users)
	if err := users.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.publishWelcomeEmail(ctx, u)
	return u, nil
}

// Login authenticates by username and password. Any mismatch, including an
// unknown username, yields apperr.ErrUnauthenticated; on success a fresh
// token is associated with the user in the session store.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *entity.User, error) {
	u, err := s.Users.SelectByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if u == nil || !helpers.CompareHashAndPassword(u.Password, password) {
		return "", nil, apperr.ErrUnauthenticated
	}

	token := session.NewToken()
	if err := s.Sessions.Set(ctx, token, *u); err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Logout drops the token's session. Invalidating an anonymous token is a
// no-op, so logout unconditionally succeeds.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.Sessions.Invalidate(ctx, token)
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	users := uow.NewStore[int64, entity.User](s.Users)
	u, ok, err := users.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return u, nil
}

// UpdatePassword is the authenticated self-update path. Only the password
// column is mutated and flushed, and the session's cached principal is
// replaced with the updated entity so later authorization checks never see
// the pre-update value.
func (s *UserService) UpdatePassword(ctx context.Context, token string, userID int64, newPassword string) (*entity.User, error) {
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	users := uow.NewStore[int64, entity.User](s.Users)
	u, err := users.Update(ctx, userID, func(u *entity.User) {
		u.Password = hash
	})
	if err != nil {
		return nil, err
	}
	if err := users.Flush(ctx); err != nil {
		return nil, err
	}

	if err := s.Sessions.Set(ctx, token, *u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) publishWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Rabbit == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Username": u.Username},
	}
	if err := s.Rabbit.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email publish failed")
	}
}
