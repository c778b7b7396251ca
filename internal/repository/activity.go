package repository

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

const (
	// activityUpsertQuery keeps at most one BELONGS_TO edge and the category
	// property in sync with it.
	activityUpsertQuery = `
MERGE (a:Activity {name: $name})
SET a.place = $place, a.time = $time, a.category = $category
WITH a
OPTIONAL MATCH (a)-[old:BELONGS_TO]->(:Category)
DELETE old
WITH DISTINCT a
FOREACH (_ IN CASE WHEN $category IS NULL THEN [] ELSE [1] END |
  MERGE (cat:Category {name: $category})
  MERGE (a)-[:BELONGS_TO]->(cat)
)
WITH a
OPTIONAL MATCH (a)-[:BELONGS_TO]->(c:Category)
RETURN ` + activityColumns

	activityListQuery = `
MATCH (a:Activity)
OPTIONAL MATCH (a)-[:BELONGS_TO]->(c:Category)
RETURN ` + activityColumns

	activityMissingQuery = `
UNWIND $names AS name
OPTIONAL MATCH (a:Activity {name: name})
WITH name, a
WHERE a IS NULL
RETURN name`
)

type ActivityRepository struct {
	runner db.Runner
}

func NewActivityRepository(runner db.Runner) *ActivityRepository {
	return &ActivityRepository{runner: runner}
}

func (r *ActivityRepository) Upsert(ctx context.Context, a models.Activity) (*models.Activity, error) {
	rows, err := r.runner.Execute(ctx, activityUpsertQuery, map[string]interface{}{
		"name":     a.Name,
		"place":    nullable(a.Place),
		"time":     nullable(a.Time),
		"category": nullable(a.Category),
	})
	if err != nil {
		return nil, errors.Wrap(err, "upsert activity")
	}
	if len(rows) == 0 {
		return nil, errors.New("upsert activity returned no rows")
	}
	res := decodeActivity(rows[0])
	return &res, nil
}

func (r *ActivityRepository) List(ctx context.Context) ([]models.Activity, error) {
	rows, err := r.runner.Execute(ctx, activityListQuery, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list activities")
	}
	return decodeActivities(rows), nil
}

// Missing returns the names that match no Activity, in input order.
func (r *ActivityRepository) Missing(ctx context.Context, names []string) ([]string, error) {
	rows, err := r.runner.Execute(ctx, activityMissingQuery, map[string]interface{}{"names": names})
	if err != nil {
		return nil, errors.Wrap(err, "find missing activities")
	}
	res := make([]string, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.String("name"))
	}
	return res, nil
}

// Delete is a no-op for unknown names.
func (r *ActivityRepository) Delete(ctx context.Context, name string) error {
	return detachDelete(ctx, r.runner, "Activity", "name", name)
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
