package service

import (
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/repository"
)

var (
	Module = fx.Provide(
		provideIdentity,
		provideCatalog,
		providePreferences,
		provideRecommender,
	)

	validate = validator.New()
)

func provideIdentity(users *repository.UserRepository, tokens *auth.Manager, cfg *config.Config, l *zap.SugaredLogger) *Identity {
	return NewIdentity(users, tokens, cfg.BcryptCost, l)
}

func provideCatalog(activities *repository.ActivityRepository, l *zap.SugaredLogger) *Catalog {
	return NewCatalog(activities, l)
}

func providePreferences(prefs *repository.PreferenceRepository, activities *repository.ActivityRepository, l *zap.SugaredLogger) *Preferences {
	return NewPreferences(prefs, activities, l)
}

func provideRecommender(recs *repository.RecommendationRepository, l *zap.SugaredLogger) *Recommender {
	return NewRecommender(recs, l)
}

// storeFailure converts an adapter error into apperr.ErrStore, keeping the
// cause in the message.
func storeFailure(err error, op string) error {
	return errors.Wrapf(apperr.ErrStore, "%s: %v", op, err)
}

// GroupByCategory buckets activities by resolved category. Groups and the
// activities inside them keep their first-seen order.
func GroupByCategory(activities []models.Activity) []models.ActivityGroup {
	groups := make([]models.ActivityGroup, 0)
	index := make(map[string]int)
	for _, a := range activities {
		key := a.ResolvedCategory()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.ActivityGroup{Category: key})
		}
		groups[i].Activities = append(groups[i].Activities, a)
	}
	return groups
}
