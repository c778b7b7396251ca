package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

const (
	DefaultRecommendationLimit = 10
	MaxRecommendationLimit     = 100
)

type (
	RecommendationStore interface {
		Recommend(ctx context.Context, email string, limit int) ([]models.Activity, error)
	}

	// Recommender suggests activities liked by users who share at least one
	// like with the caller. Order inside the limit is not defined.
	Recommender struct {
		recs   RecommendationStore
		logger *zap.SugaredLogger
	}
)

func NewRecommender(recs RecommendationStore, l *zap.SugaredLogger) *Recommender {
	return &Recommender{
		recs:   recs,
		logger: l,
	}
}

func (s *Recommender) GetRecommendations(ctx context.Context, email string, limit int) ([]models.ActivityGroup, error) {
	if email == "" {
		return nil, errors.Wrap(apperr.ErrAuthentication, "caller identity is unknown")
	}
	switch {
	case limit <= 0:
		limit = DefaultRecommendationLimit
	case limit > MaxRecommendationLimit:
		limit = MaxRecommendationLimit
	}

	found, err := s.recs.Recommend(ctx, email, limit)
	if err != nil {
		return nil, storeFailure(err, "recommend")
	}

	distinct := make([]models.Activity, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, a := range found {
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		distinct = append(distinct, a)
	}
	if len(distinct) > limit {
		distinct = distinct[:limit]
	}

	s.logger.Debugw("Recommendations computed.", "email", email, "count", len(distinct))
	return GroupByCategory(distinct), nil
}
