package db

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/config"
)

type Client struct {
	driver neo4j.DriverWithContext
	dbName string
}

func NewGraphClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.SugaredLogger) (*Client, error) {
	client, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Verify(ctx); err != nil {
				return errors.Wrap(err, "verify neo4j connectivity")
			}
			if err := EnsureSchema(ctx, client); err != nil {
				return err
			}
			logger.Infow("Connected to graph store.", "uri", cfg.Neo4jURI, "database", cfg.Neo4jDatabase)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing graph store driver.")
			return client.Close(ctx)
		},
	})

	return client, nil
}

// Open creates a driver without verifying connectivity.
func Open(cfg *config.Config) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create neo4j driver")
	}
	return &Client{driver: driver, dbName: cfg.Neo4jDatabase}, nil
}

func (c *Client) Verify(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func (c *Client) Execute(ctx context.Context, query string, params map[string]interface{}) ([]Record, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		c.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.dbName),
	)
	if err != nil {
		return nil, classify(err)
	}

	rows := make([]Record, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, rec.AsMap())
	}
	return rows, nil
}

// NewRunner stacks metrics and the circuit breaker on top of the client.
func NewRunner(client *Client, logger *zap.SugaredLogger) Runner {
	return newInstrumentedRunner(newBreakerRunner(client, logger))
}
