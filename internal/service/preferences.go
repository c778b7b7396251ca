package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

type (
	PreferenceStore interface {
		Link(ctx context.Context, email string, names []string) (int64, error)
		Unlink(ctx context.Context, email, name string) error
		Liked(ctx context.Context, email string) ([]models.Activity, error)
	}

	ActivityLookup interface {
		Missing(ctx context.Context, names []string) ([]string, error)
	}

	Preferences struct {
		prefs      PreferenceStore
		activities ActivityLookup
		logger     *zap.SugaredLogger
	}
)

func NewPreferences(prefs PreferenceStore, activities ActivityLookup, l *zap.SugaredLogger) *Preferences {
	return &Preferences{
		prefs:      prefs,
		activities: activities,
		logger:     l,
	}
}

// AddPreferences validates every name first and then links all of them in
// one statement. Unknown names fail the whole call without writing.
func (s *Preferences) AddPreferences(ctx context.Context, email string, names []string) error {
	if len(names) == 0 {
		return apperr.Validation("field 'activities' must be a non-empty list")
	}

	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return apperr.Validation("activity names must not be blank")
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}

	missing, err := s.activities.Missing(ctx, unique)
	if err != nil {
		return storeFailure(err, "validate activities")
	}
	if len(missing) > 0 {
		return &apperr.InvalidActivitiesError{Names: missing}
	}

	linked, err := s.prefs.Link(ctx, email, unique)
	if err != nil {
		return storeFailure(err, "link preferences")
	}
	s.logger.Debugw("Preferences linked.", "email", email, "requested", len(unique), "linked", linked)
	return nil
}

func (s *Preferences) RemovePreference(ctx context.Context, email, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("activity name is required")
	}
	if err := s.prefs.Unlink(ctx, email, name); err != nil {
		return storeFailure(err, "remove preference")
	}
	return nil
}

func (s *Preferences) ListMyPreferences(ctx context.Context, email string) ([]models.ActivityGroup, error) {
	liked, err := s.prefs.Liked(ctx, email)
	if err != nil {
		return nil, storeFailure(err, "list preferences")
	}
	return GroupByCategory(liked), nil
}

func (s *Preferences) LikeActivity(ctx context.Context, email, name string) error {
	return s.AddPreferences(ctx, email, []string{name})
}

func (s *Preferences) UnlikeActivity(ctx context.Context, email, name string) error {
	return s.RemovePreference(ctx, email, name)
}
