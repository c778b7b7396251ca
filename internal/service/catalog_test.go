package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

func TestValidSchedule(t *testing.T) {
	valid := []string{"02/06/25 2:00pm", "02/06/25 12:30am", "02/06/25 2:00PM", "13/13/25 2:00pm"}
	invalid := []string{"2/06/25 2:00pm", "02/06/2025 2:00pm", "02/06/25 2:0pm", "02/06/25 2:00", "02/06/25 14:00 pm", ""}

	for _, s := range valid {
		assert.True(t, ValidSchedule(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidSchedule(s), s)
	}
}

func TestCreateActivity(t *testing.T) {
	t.Run("normalizes fields before upsert", func(t *testing.T) {
		store := &activityStoreMock{}
		store.On("Upsert", mock.Anything, models.Activity{
			Name:     "Yoga",
			Time:     strPtr("13/13/25 2:00pm"),
			Category: strPtr("Wellness"),
		}).Return(&models.Activity{Name: "Yoga", Category: strPtr("Wellness"), LinkedCategory: strPtr("Wellness")}, nil)

		s := NewCatalog(store, nopLogger)
		a, err := s.CreateActivity(context.Background(), ActivityInput{
			Name:     "  Yoga ",
			Place:    strPtr("   "),
			Time:     strPtr("13/13/25 2:00pm"),
			Category: strPtr(" Wellness "),
		})
		require.NoError(t, err)
		assert.Equal(t, "Wellness", a.ResolvedCategory())
		store.AssertExpectations(t)
	})

	t.Run("empty name", func(t *testing.T) {
		store := &activityStoreMock{}
		_, err := NewCatalog(store, nopLogger).CreateActivity(context.Background(), ActivityInput{Name: " "})
		assert.True(t, errors.Is(err, apperr.ErrValidation))
		store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("bad time", func(t *testing.T) {
		store := &activityStoreMock{}
		_, err := NewCatalog(store, nopLogger).CreateActivity(context.Background(), ActivityInput{Name: "Yoga", Time: strPtr("tomorrow")})
		assert.True(t, errors.Is(err, apperr.ErrValidation))
		store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestListActivitiesGroups(t *testing.T) {
	store := &activityStoreMock{}
	store.On("List", mock.Anything).Return([]models.Activity{
		activity("Yoga", "Wellness"),
		activity("Chess", ""),
		activity("Meditation", "Wellness"),
		{Name: "Legacy", Category: strPtr("Games"), LinkedCategory: strPtr("Board")},
		{Name: "Linked", LinkedCategory: strPtr("Board")},
	}, nil)

	groups, err := NewCatalog(store, nopLogger).ListActivities(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 4)

	assert.Equal(t, "Wellness", groups[0].Category)
	assert.Equal(t, []string{"Yoga", "Meditation"}, names(groups[0].Activities))
	assert.Equal(t, models.Uncategorized, groups[1].Category)
	assert.Equal(t, "Games", groups[2].Category)
	assert.Equal(t, "Board", groups[3].Category)
}

func TestDeleteActivity(t *testing.T) {
	store := &activityStoreMock{}
	store.On("Delete", mock.Anything, "Yoga").Return(nil)

	s := NewCatalog(store, nopLogger)
	require.NoError(t, s.DeleteActivity(context.Background(), "Yoga"))
	assert.True(t, errors.Is(s.DeleteActivity(context.Background(), ""), apperr.ErrValidation))
}

func names(acts []models.Activity) []string {
	res := make([]string, len(acts))
	for i := range acts {
		res[i] = acts[i].Name
	}
	return res
}
