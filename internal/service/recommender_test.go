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

func TestGetRecommendationsLimit(t *testing.T) {
	tests := map[int]int{
		0:    DefaultRecommendationLimit,
		-3:   DefaultRecommendationLimit,
		5:    5,
		1000: MaxRecommendationLimit,
	}

	for in, want := range tests {
		recs := &recommendationStoreMock{}
		recs.On("Recommend", mock.Anything, "a@example.com", want).Return([]models.Activity{}, nil)

		_, err := NewRecommender(recs, nopLogger).GetRecommendations(context.Background(), "a@example.com", in)
		require.NoError(t, err)
		recs.AssertExpectations(t)
	}
}

func TestGetRecommendationsGroupsDistinct(t *testing.T) {
	recs := &recommendationStoreMock{}
	recs.On("Recommend", mock.Anything, "a@example.com", 2).Return([]models.Activity{
		activity("Painting", "Art"),
		activity("Painting", "Art"),
		activity("Poker", ""),
		activity("Sculpture", "Art"),
	}, nil)

	groups, err := NewRecommender(recs, nopLogger).GetRecommendations(context.Background(), "a@example.com", 2)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Art", groups[0].Category)
	assert.Equal(t, []string{"Painting"}, names(groups[0].Activities))
	assert.Equal(t, models.Uncategorized, groups[1].Category)
	assert.Equal(t, []string{"Poker"}, names(groups[1].Activities))
}

func TestGetRecommendationsEmpty(t *testing.T) {
	recs := &recommendationStoreMock{}
	recs.On("Recommend", mock.Anything, "lonely@example.com", DefaultRecommendationLimit).Return([]models.Activity{}, nil)

	groups, err := NewRecommender(recs, nopLogger).GetRecommendations(context.Background(), "lonely@example.com", 0)
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGetRecommendationsErrors(t *testing.T) {
	recs := &recommendationStoreMock{}
	recs.On("Recommend", mock.Anything, "a@example.com", DefaultRecommendationLimit).Return(nil, errors.New("down"))

	s := NewRecommender(recs, nopLogger)

	_, err := s.GetRecommendations(context.Background(), "", 0)
	assert.True(t, errors.Is(err, apperr.ErrAuthentication))

	_, err = s.GetRecommendations(context.Background(), "a@example.com", 0)
	assert.True(t, errors.Is(err, apperr.ErrStore))
}
