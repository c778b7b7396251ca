// Package db is the graph store adapter. It runs parametrized Cypher against
// Neo4j and hands rows back as field name -> value mappings.
package db

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const constraintViolationCode = "Neo.ClientError.Schema.ConstraintValidationFailed"

var (
	Module = fx.Provide(
		NewGraphClient,
		NewRunner,
	)

	ErrConstraintViolation = errors.New("constraint violation")
	ErrUnavailable         = errors.New("graph store unavailable")
)

type (
	// Record is one result row.
	Record map[string]interface{}

	// Runner executes a single statement in its own transaction. No retries.
	Runner interface {
		Execute(ctx context.Context, query string, params map[string]interface{}) ([]Record, error)
	}
)

func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r Record) StringPtr(key string) *string {
	s, ok := r[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func (r Record) Strings(key string) []string {
	raw, ok := r[key].([]interface{})
	if !ok {
		if ss, ok := r[key].([]string); ok {
			return ss
		}
		return []string{}
	}
	res := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			res = append(res, s)
		}
	}
	return res
}

func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func classify(err error) error {
	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) && nerr.Code == constraintViolationCode {
		return errors.Wrap(ErrConstraintViolation, nerr.Msg)
	}
	return errors.Wrap(err, "execute query")
}

// isClientError reports errors caused by the request itself rather than by
// the store being unhealthy.
func isClientError(err error) bool {
	if errors.Is(err, ErrConstraintViolation) || errors.Is(err, context.Canceled) {
		return true
	}
	var nerr *neo4j.Neo4jError
	return errors.As(err, &nerr) && strings.HasPrefix(nerr.Code, "Neo.ClientError.")
}
