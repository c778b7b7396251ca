package repository

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

// recommendationQuery walks me -LIKES-> shared <-LIKES- other -LIKES-> a and
// keeps the activities I do not like yet. Row order follows the traversal.
const recommendationQuery = `
MATCH (me:User {email: $email})-[:LIKES]->(mine:Activity)
WITH me, collect(mine) AS liked
UNWIND liked AS shared
MATCH (shared)<-[:LIKES]-(other:User)-[:LIKES]->(a:Activity)
WHERE other <> me AND NOT a IN liked
WITH DISTINCT a
LIMIT $limit
OPTIONAL MATCH (a)-[:BELONGS_TO]->(c:Category)
RETURN ` + activityColumns

type RecommendationRepository struct {
	runner db.Runner
}

func NewRecommendationRepository(runner db.Runner) *RecommendationRepository {
	return &RecommendationRepository{runner: runner}
}

func (r *RecommendationRepository) Recommend(ctx context.Context, email string, limit int) ([]models.Activity, error) {
	rows, err := r.runner.Execute(ctx, recommendationQuery, map[string]interface{}{
		"email": email,
		"limit": int64(limit),
	})
	if err != nil {
		return nil, errors.Wrap(err, "recommend activities")
	}
	return decodeActivities(rows), nil
}
