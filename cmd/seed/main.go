// Command seed loads a catalog of activities from a JSON file and optionally
// registers a bootstrap admin.
//
//	{
//	  "admin": {"name": "Root", "email": "root@example.com", "password": "..."},
//	  "activities": [{"nombre": "Yoga", "place": "Park", "categoria": "Wellness"}]
//	}
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/logger"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/repository"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/service"
)

type seedFile struct {
	Admin      *models.RegisterReq  `json:"admin"`
	Activities []models.ActivityReq `json:"activities"`
}

func main() {
	path := flag.String("file", "seed.json", "path to the catalog JSON file")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	var (
		catalog  *service.Catalog
		identity *service.Identity
		log      *zap.SugaredLogger
	)
	app := fx.New(
		config.Module,
		logger.Module,
		db.Module,
		repository.Module,
		auth.Module,
		service.Module,
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
		fx.Populate(&catalog, &identity, &log),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(err)
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			log.Errorw("Stop application.", "error", err)
		}
	}()

	if err := run(ctx, *path, catalog, identity, log); err != nil {
		log.Errorw("Seeding failed.", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, catalog *service.Catalog, identity *service.Identity, log *zap.SugaredLogger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return errors.Wrap(err, "decode seed file")
	}

	if seed.Admin != nil {
		err := identity.Register(ctx, service.RegisterInput{
			Name:     seed.Admin.Name,
			Email:    seed.Admin.Email,
			Password: seed.Admin.Password,
			Role:     models.RoleAdmin,
		})
		switch {
		case errors.Is(err, apperr.ErrConflict):
			log.Infow("Admin already registered.", "email", seed.Admin.Email)
		case err != nil:
			return errors.Wrap(err, "register admin")
		default:
			log.Infow("Admin registered.", "email", seed.Admin.Email)
		}
	}

	for _, a := range seed.Activities {
		category := a.Category
		if category == nil {
			category = a.Categoria
		}
		created, err := catalog.CreateActivity(ctx, service.ActivityInput{
			Name:     a.Nombre,
			Place:    a.Place,
			Time:     a.Time,
			Category: category,
		})
		if err != nil {
			return errors.Wrapf(err, "create activity '%s'", a.Nombre)
		}
		log.Infow("Activity upserted.", "name", created.Name, "category", created.ResolvedCategory())
	}

	log.Infow("Catalog seeded.", "activities", len(seed.Activities))
	return nil
}
