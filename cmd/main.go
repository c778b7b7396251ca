package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/logger"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/repository"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/rpc"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/service"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/transport"
)

func main() {
	fx.New(
		config.Module,
		logger.Module,
		db.Module,
		repository.Module,
		auth.Module,
		service.Module,
		transport.Module,
		rpc.Module,
		fx.WithLogger(func(l *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Desugar()}
		}),
		fx.Invoke(func(*transport.HTTPServer, *rpc.RecommenderServerImpl) {}),
	).Run()
}
