package db

import (
	"context"

	"github.com/pkg/errors"
)

var constraints = []string{
	"CREATE CONSTRAINT user_email IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE",
	"CREATE CONSTRAINT activity_name IF NOT EXISTS FOR (a:Activity) REQUIRE a.name IS UNIQUE",
	"CREATE CONSTRAINT category_name IF NOT EXISTS FOR (c:Category) REQUIRE c.name IS UNIQUE",
}

// EnsureSchema creates the uniqueness constraints the data model relies on.
func EnsureSchema(ctx context.Context, r Runner) error {
	for _, stmt := range constraints {
		if _, err := r.Execute(ctx, stmt, nil); err != nil {
			return errors.Wrap(err, "ensure schema")
		}
	}
	return nil
}
