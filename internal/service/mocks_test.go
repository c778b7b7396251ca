package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

var nopLogger = zap.NewNop().Sugar()

type userStoreMock struct{ mock.Mock }

func (m *userStoreMock) Exists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *userStoreMock) Create(ctx context.Context, u models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *userStoreMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *userStoreMock) Profile(ctx context.Context, email string) (*models.UserProfile, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).(*models.UserProfile)
	return p, args.Error(1)
}

func (m *userStoreMock) Delete(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type activityStoreMock struct{ mock.Mock }

func (m *activityStoreMock) Upsert(ctx context.Context, a models.Activity) (*models.Activity, error) {
	args := m.Called(ctx, a)
	res, _ := args.Get(0).(*models.Activity)
	return res, args.Error(1)
}

func (m *activityStoreMock) List(ctx context.Context) ([]models.Activity, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]models.Activity)
	return res, args.Error(1)
}

func (m *activityStoreMock) Missing(ctx context.Context, names []string) ([]string, error) {
	args := m.Called(ctx, names)
	res, _ := args.Get(0).([]string)
	return res, args.Error(1)
}

func (m *activityStoreMock) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type preferenceStoreMock struct{ mock.Mock }

func (m *preferenceStoreMock) Link(ctx context.Context, email string, names []string) (int64, error) {
	args := m.Called(ctx, email, names)
	return int64(args.Int(0)), args.Error(1)
}

func (m *preferenceStoreMock) Unlink(ctx context.Context, email, name string) error {
	return m.Called(ctx, email, name).Error(0)
}

func (m *preferenceStoreMock) Liked(ctx context.Context, email string) ([]models.Activity, error) {
	args := m.Called(ctx, email)
	res, _ := args.Get(0).([]models.Activity)
	return res, args.Error(1)
}

type recommendationStoreMock struct{ mock.Mock }

func (m *recommendationStoreMock) Recommend(ctx context.Context, email string, limit int) ([]models.Activity, error) {
	args := m.Called(ctx, email, limit)
	res, _ := args.Get(0).([]models.Activity)
	return res, args.Error(1)
}

func strPtr(s string) *string { return &s }

func activity(name, category string) models.Activity {
	a := models.Activity{Name: name}
	if category != "" {
		a.Category = strPtr(category)
		a.LinkedCategory = strPtr(category)
	}
	return a
}
