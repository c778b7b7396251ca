package repository

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

const (
	preferenceLinkQuery = `
MATCH (u:User {email: $email})
UNWIND $names AS name
MATCH (a:Activity {name: name})
MERGE (u)-[:LIKES]->(a)
RETURN count(a) AS linked`

	preferenceUnlinkQuery = `
MATCH (u:User {email: $email})-[r:LIKES]->(a:Activity {name: $name})
DELETE r`

	preferenceListQuery = `
MATCH (u:User {email: $email})-[:LIKES]->(a:Activity)
OPTIONAL MATCH (a)-[:BELONGS_TO]->(c:Category)
RETURN ` + activityColumns
)

type PreferenceRepository struct {
	runner db.Runner
}

func NewPreferenceRepository(runner db.Runner) *PreferenceRepository {
	return &PreferenceRepository{runner: runner}
}

// Link merges a LIKES edge to every named activity in a single statement,
// so either all edges are written or none.
func (r *PreferenceRepository) Link(ctx context.Context, email string, names []string) (int64, error) {
	rows, err := r.runner.Execute(ctx, preferenceLinkQuery, map[string]interface{}{
		"email": email,
		"names": names,
	})
	if err != nil {
		return 0, errors.Wrap(err, "link preferences")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int("linked"), nil
}

func (r *PreferenceRepository) Unlink(ctx context.Context, email, name string) error {
	_, err := r.runner.Execute(ctx, preferenceUnlinkQuery, map[string]interface{}{
		"email": email,
		"name":  name,
	})
	if err != nil {
		return errors.Wrap(err, "unlink preference")
	}
	return nil
}

func (r *PreferenceRepository) Liked(ctx context.Context, email string) ([]models.Activity, error) {
	rows, err := r.runner.Execute(ctx, preferenceListQuery, map[string]interface{}{"email": email})
	if err != nil {
		return nil, errors.Wrap(err, "list preferences")
	}
	return decodeActivities(rows), nil
}
