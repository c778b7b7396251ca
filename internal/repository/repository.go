// Package repository holds the Cypher statements of every graph operation and
// decodes their rows into model structs.
package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"go.uber.org/fx"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

var (
	Module = fx.Provide(
		NewUserRepository,
		NewActivityRepository,
		NewPreferenceRepository,
		NewRecommendationRepository,
	)

	// ErrNotFound is returned by lookups that match no node.
	ErrNotFound = errors.New("record not found")
)

// activityColumns expects `a` bound to the activity and `c` to its optional category.
const activityColumns = `a.name AS name, a.place AS place, a.time AS time, a.category AS category, c.name AS linked_category`

func decodeActivity(r db.Record) models.Activity {
	return models.Activity{
		Name:           r.String("name"),
		Place:          r.StringPtr("place"),
		Time:           r.StringPtr("time"),
		Category:       r.StringPtr("category"),
		LinkedCategory: r.StringPtr("linked_category"),
	}
}

func decodeActivities(rows []db.Record) []models.Activity {
	res := make([]models.Activity, 0, len(rows))
	for _, r := range rows {
		res = append(res, decodeActivity(r))
	}
	return res
}

// detachDelete removes the node with the given key and every relationship attached to it.
func detachDelete(ctx context.Context, runner db.Runner, label, key string, value interface{}) error {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", label).WithProperties(map[string]interface{}{key: value})).
		DetachDelete("n").
		Build()
	if err != nil {
		return errors.Wrap(err, "build query")
	}
	if _, err := runner.Execute(ctx, query, params); err != nil {
		return errors.Wrapf(err, "detach delete %s", label)
	}
	return nil
}
