package repository

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

const (
	userExistsQuery = `MATCH (u:User {email: $email}) RETURN count(u) AS n`

	userCreateQuery = `CREATE (u:User {email: $email, name: $name, password: $password, role: $role})`

	userFindQuery = `
MATCH (u:User {email: $email})
RETURN u.email AS email, u.name AS name, u.password AS password, u.role AS role`

	userProfileQuery = `
MATCH (u:User {email: $email})
OPTIONAL MATCH (u)-[:LIKES]->(a:Activity)
RETURN u.name AS name, u.email AS email, collect(a.name) AS preferences`
)

type UserRepository struct {
	runner db.Runner
}

func NewUserRepository(runner db.Runner) *UserRepository {
	return &UserRepository{runner: runner}
}

func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	rows, err := r.runner.Execute(ctx, userExistsQuery, map[string]interface{}{"email": email})
	if err != nil {
		return false, errors.Wrap(err, "user exists")
	}
	return len(rows) > 0 && rows[0].Int("n") > 0, nil
}

// Create fails with db.ErrConstraintViolation when the email is taken.
func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.runner.Execute(ctx, userCreateQuery, map[string]interface{}{
		"email":    u.Email,
		"name":     u.Name,
		"password": u.PasswordHash,
		"role":     u.Role,
	})
	if err != nil {
		return errors.Wrap(err, "create user")
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, err := r.runner.Execute(ctx, userFindQuery, map[string]interface{}{"email": email})
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	role := rows[0].String("role")
	if role == "" {
		role = models.RoleUser
	}
	return &models.User{
		Email:        rows[0].String("email"),
		Name:         rows[0].String("name"),
		PasswordHash: rows[0].String("password"),
		Role:         role,
	}, nil
}

func (r *UserRepository) Profile(ctx context.Context, email string) (*models.UserProfile, error) {
	rows, err := r.runner.Execute(ctx, userProfileQuery, map[string]interface{}{"email": email})
	if err != nil {
		return nil, errors.Wrap(err, "user profile")
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &models.UserProfile{
		Name:        rows[0].String("name"),
		Email:       rows[0].String("email"),
		Preferences: rows[0].Strings("preferences"),
	}, nil
}

// Delete removes the user together with its LIKES edges.
func (r *UserRepository) Delete(ctx context.Context, email string) error {
	return detachDelete(ctx, r.runner, "User", "email", email)
}
