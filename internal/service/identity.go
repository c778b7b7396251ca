package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/repository"
)

var (
	ErrLoginUserNotFound         = errors.New("user not found")
	ErrLoginPasswordDoesNotMatch = errors.New("password does not match")
)

type (
	UserStore interface {
		Exists(ctx context.Context, email string) (bool, error)
		Create(ctx context.Context, u models.User) error
		FindByEmail(ctx context.Context, email string) (*models.User, error)
		Profile(ctx context.Context, email string) (*models.UserProfile, error)
		Delete(ctx context.Context, email string) error
	}

	TokenIssuer interface {
		GenerateToken(email, role string) (string, error)
	}

	RegisterInput struct {
		Name     string
		Email    string
		Password string
		Role     string
	}

	LoginResult struct {
		Token string
		User  models.User
	}

	Identity struct {
		users      UserStore
		tokens     TokenIssuer
		bcryptCost int
		logger     *zap.SugaredLogger
	}
)

func NewIdentity(users UserStore, tokens TokenIssuer, bcryptCost int, l *zap.SugaredLogger) *Identity {
	return &Identity{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     l,
	}
}

func (s *Identity) Register(ctx context.Context, in RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return apperr.Validation("missing fields: name, email, password")
	}
	if err := validate.Var(in.Email, "email"); err != nil {
		return apperr.Validation("invalid email")
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !models.ValidRole(in.Role) {
		return apperr.Validation("invalid role")
	}

	exists, err := s.users.Exists(ctx, in.Email)
	if err != nil {
		return storeFailure(err, "check user")
	}
	if exists {
		return errors.Wrap(apperr.ErrConflict, "user already exists")
	}

	hash, err := s.bcryptGen(in.Password)
	if err != nil {
		return errors.Wrap(err, "bcryptGen")
	}

	err = s.users.Create(ctx, models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if errors.Is(err, db.ErrConstraintViolation) {
		return errors.Wrap(apperr.ErrConflict, "user already exists")
	}
	if err != nil {
		return storeFailure(err, "create user")
	}

	s.logger.Infow("User registered.", "email", in.Email, "role", in.Role)
	return nil
}

func (s *Identity) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || pass == "" {
		return nil, apperr.Validation("missing fields: email, password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debugw("Login rejected.", "email", email, "reason", ErrLoginUserNotFound)
		return nil, errors.Wrap(apperr.ErrAuthentication, "invalid credentials")
	}
	if err != nil {
		return nil, storeFailure(err, "find user")
	}

	if err := s.bcryptCheck(user.PasswordHash, pass); err != nil {
		s.logger.Debugw("Login rejected.", "email", email, "reason", ErrLoginPasswordDoesNotMatch)
		return nil, errors.Wrap(apperr.ErrAuthentication, "invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user.Email, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "generate token")
	}

	return &LoginResult{Token: token, User: *user}, nil
}

func (s *Identity) CurrentUser(ctx context.Context, email string) (*models.UserProfile, error) {
	profile, err := s.users.Profile(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errors.Wrap(apperr.ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, storeFailure(err, "load user")
	}
	return profile, nil
}

// DeleteCurrentUser removes the user and every LIKES edge it owns.
func (s *Identity) DeleteCurrentUser(ctx context.Context, email string) error {
	exists, err := s.users.Exists(ctx, email)
	if err != nil {
		return storeFailure(err, "check user")
	}
	if !exists {
		return errors.Wrap(apperr.ErrNotFound, "user not found")
	}
	if err := s.users.Delete(ctx, email); err != nil {
		return storeFailure(err, "delete user")
	}
	s.logger.Infow("User deleted.", "email", email)
	return nil
}

func (s *Identity) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), s.bcryptCost)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

func (s *Identity) bcryptCheck(hash, pass string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
}
