//go:build functional

package test_functional

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Host          string `mapstructure:"HOST"`
		Port          string `mapstructure:"PORT"`
		Neo4jURI      string `mapstructure:"NEO4J_URI"`
		Neo4jUser     string `mapstructure:"NEO4J_USER"`
		Neo4jPassword string `mapstructure:"NEO4J_PASSWORD"`
		Neo4jDatabase string `mapstructure:"NEO4J_DATABASE"`
	}
)

var (
	AppBaseURL url.URL
	Driver     neo4j.DriverWithContext
	DBName     string
)

func TestMain(m *testing.M) {
	viper.SetEnvPrefix("TEST_RUNNER")

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("NEO4J_URI", "neo4j://localhost:7687")
	viper.SetDefault("NEO4J_USER", "neo4j")
	viper.SetDefault("NEO4J_PASSWORD", "password")
	viper.SetDefault("NEO4J_DATABASE", "neo4j")

	envs := []string{"HOST", "PORT", "NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "NEO4J_DATABASE"}
	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			panic(err)
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	fmt.Println(cfg.Host, cfg.Port, cfg.Neo4jURI)

	AppBaseURL = url.URL{
		Scheme: "http",
		Host:   cfg.Host + ":" + cfg.Port,
	}

	////////

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		panic(err)
	}
	Driver = driver
	DBName = cfg.Neo4jDatabase

	////////

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)

	cl := resty.New()
	pingUrl := AppBaseURL
	pingUrl.Path = "/ping"
	pingUrlStr := pingUrl.String()
	for {
		if pingCtx.Err() != nil {
			panic(pingCtx.Err())
		}
		resp, err := cl.R().SetContext(pingCtx).Get(pingUrlStr)
		if err == nil && resp.String() == "pong" {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	cancel()

	fmt.Println("pinged successfully")

	///////

	code := m.Run()
	_ = Driver.Close(context.Background())
	os.Exit(code)
}

func FlushDB() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, err := neo4j.ExecuteQuery(ctx, Driver, "MATCH (n) DETACH DELETE n", nil,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(DBName))
	if err != nil {
		panic(err)
	}
}

func CountEdges(ctx context.Context, query string, params map[string]any) int64 {
	res, err := neo4j.ExecuteQuery(ctx, Driver, query, params,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(DBName))
	if err != nil {
		panic(err)
	}
	if len(res.Records) == 0 {
		return 0
	}
	n, _ := res.Records[0].Values[0].(int64)
	return n
}

func Endpoint(path string) string {
	u := AppBaseURL
	u.Path = path
	return u.String()
}

// Token registers a user with role and returns its bearer token.
func Token(t *testing.T, ctx context.Context, email, role string) string {
	t.Helper()

	type Resp struct {
		Token string `json:"token"`
	}

	_, err := resty.New().R().
		SetContext(ctx).
		SetBody(map[string]string{"name": email, "email": email, "password": "111111111111", "role": role}).
		Post(Endpoint("/api/auth/register"))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := resty.New().R().
		SetContext(ctx).
		SetResult(&Resp{}).
		SetBody(map[string]string{"email": email, "password": "111111111111"}).
		Post(Endpoint("/api/auth/login"))
	if err != nil {
		t.Fatal(err)
	}
	return resp.Result().(*Resp).Token
}
