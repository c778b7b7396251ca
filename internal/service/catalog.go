package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
)

// schedulePattern is dd/mm/yy h:mm(am|pm). Digits only, no calendar check.
var schedulePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{2} \d{1,2}:\d{2}(am|pm)$`)

type (
	ActivityStore interface {
		Upsert(ctx context.Context, a models.Activity) (*models.Activity, error)
		List(ctx context.Context) ([]models.Activity, error)
		Missing(ctx context.Context, names []string) ([]string, error)
		Delete(ctx context.Context, name string) error
	}

	ActivityInput struct {
		Name     string
		Place    *string
		Time     *string
		Category *string
	}

	Catalog struct {
		activities ActivityStore
		logger     *zap.SugaredLogger
	}
)

func NewCatalog(activities ActivityStore, l *zap.SugaredLogger) *Catalog {
	return &Catalog{
		activities: activities,
		logger:     l,
	}
}

// ValidSchedule reports whether s matches the activity time format, ignoring case.
func ValidSchedule(s string) bool {
	return schedulePattern.MatchString(strings.ToLower(s))
}

// CreateActivity upserts by name. Omitting the category unlinks any previous one.
func (s *Catalog) CreateActivity(ctx context.Context, in ActivityInput) (*models.Activity, error) {
	a := models.Activity{
		Name:     strings.TrimSpace(in.Name),
		Place:    normalize(in.Place),
		Time:     normalize(in.Time),
		Category: normalize(in.Category),
	}
	if a.Name == "" {
		return nil, apperr.Validation("field 'nombre' is required")
	}
	if a.Time != nil && !ValidSchedule(*a.Time) {
		return nil, apperr.Validation("field 'time' must match dd/mm/yy h:mmam or h:mmpm, e.g. 02/06/25 2:00pm")
	}

	res, err := s.activities.Upsert(ctx, a)
	if err != nil {
		return nil, storeFailure(err, "save activity")
	}
	s.logger.Infow("Activity saved.", "name", res.Name, "category", res.ResolvedCategory())
	return res, nil
}

func (s *Catalog) ListActivities(ctx context.Context) ([]models.ActivityGroup, error) {
	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, storeFailure(err, "list activities")
	}
	return GroupByCategory(activities), nil
}

func (s *Catalog) DeleteActivity(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("activity name is required")
	}
	if err := s.activities.Delete(ctx, name); err != nil {
		return storeFailure(err, "delete activity")
	}
	s.logger.Infow("Activity deleted.", "name", name)
	return nil
}

func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
