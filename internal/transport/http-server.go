package transport

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/service"
)

const principalKey = "principal"

var Module = fx.Provide(NewHTTPServer)

type (
	IdentityService interface {
		Register(ctx context.Context, in service.RegisterInput) error
		Login(ctx context.Context, email, pass string) (*service.LoginResult, error)
		CurrentUser(ctx context.Context, email string) (*models.UserProfile, error)
		DeleteCurrentUser(ctx context.Context, email string) error
	}

	CatalogService interface {
		CreateActivity(ctx context.Context, in service.ActivityInput) (*models.Activity, error)
		ListActivities(ctx context.Context) ([]models.ActivityGroup, error)
		DeleteActivity(ctx context.Context, name string) error
	}

	PreferenceService interface {
		AddPreferences(ctx context.Context, email string, names []string) error
		RemovePreference(ctx context.Context, email, name string) error
		ListMyPreferences(ctx context.Context, email string) ([]models.ActivityGroup, error)
		LikeActivity(ctx context.Context, email, name string) error
		UnlikeActivity(ctx context.Context, email, name string) error
	}

	RecommendationService interface {
		GetRecommendations(ctx context.Context, email string, limit int) ([]models.ActivityGroup, error)
	}

	TokenVerifier interface {
		ValidateToken(token string) (*auth.Principal, error)
	}

	AccessGuard interface {
		RequireRole(p *auth.Principal, role string) error
		Authorize(p *auth.Principal, resource, action string) error
	}

	Services struct {
		Identity    IdentityService
		Catalog     CatalogService
		Preferences PreferenceService
		Recommender RecommendationService
		Tokens      TokenVerifier
		Guard       AccessGuard
	}

	Params struct {
		fx.In

		Lifecycle   fx.Lifecycle
		Config      *config.Config
		Logger      *zap.SugaredLogger
		Identity    *service.Identity
		Catalog     *service.Catalog
		Preferences *service.Preferences
		Recommender *service.Recommender
		Tokens      *auth.Manager
		Guard       *auth.Guard
	}

	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		echo   *echo.Echo
		svc    Services
		logger *zap.SugaredLogger
	}
)

func NewHTTPServer(p Params) *HTTPServer {
	instance := New(p.Config, p.Logger, Services{
		Identity:    p.Identity,
		Catalog:     p.Catalog,
		Preferences: p.Preferences,
		Recommender: p.Recommender,
		Tokens:      p.Tokens,
		Guard:       p.Guard,
	})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := p.Config.Host + ":" + p.Config.Port
				if err := instance.echo.Start(listen); err != nil && err != http.ErrServerClosed {
					p.Logger.Fatalw("HTTP server failed.", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("Stopping HTTP server.")
			return instance.echo.Shutdown(ctx)
		},
	})

	return instance
}

// New builds the router without binding it to a listener.
func New(cfg *config.Config, logger *zap.SugaredLogger, svc Services) *HTTPServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	instance := HTTPServer{
		echo:   e,
		svc:    svc,
		logger: logger,
	}

	e.Validator = NewCustomValidator()
	e.HTTPErrorHandler = instance.ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(instance.RequestLogger())
	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool { return c.Request().Method == http.MethodGet },
		Handler: instance.dumpBody,
	}))
	e.Use(middleware.Recover())

	loginLimiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.LoginRate),
			Burst:     cfg.LoginBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/auth/register", instance.Register)
	api.POST("/auth/login", instance.Login, loginLimiter)

	api.GET("/users/me", instance.UserGet, instance.AuthMiddleware, instance.authorize("profile", "read"))
	api.DELETE("/users/me", instance.UserDelete, instance.AuthMiddleware, instance.authorize("profile", "delete"))

	api.GET("/activities", instance.ActivityList)
	api.POST("/activities", instance.ActivityCreate, instance.AuthMiddleware, instance.requireRole(models.RoleAdmin))
	api.DELETE("/activities/:name", instance.ActivityDelete, instance.AuthMiddleware, instance.requireRole(models.RoleAdmin))
	api.POST("/activities/:name/like", instance.ActivityLike, instance.AuthMiddleware, instance.authorize("preferences", "write"))
	api.DELETE("/activities/:name/like", instance.ActivityUnlike, instance.AuthMiddleware, instance.authorize("preferences", "write"))

	api.GET("/preferences/me", instance.PreferenceList, instance.AuthMiddleware, instance.authorize("preferences", "read"))
	api.POST("/preferences", instance.PreferenceAdd, instance.AuthMiddleware, instance.authorize("preferences", "write"))
	api.DELETE("/preferences/:name", instance.PreferenceDelete, instance.AuthMiddleware, instance.authorize("preferences", "write"))

	api.GET("/recommendations", instance.RecommendationList, instance.AuthMiddleware, instance.authorize("recommendations", "read"))

	return &instance
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *HTTPServer) Register(c echo.Context) error {
	req := models.RegisterReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	err := s.svc.Identity.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, models.StatusResp{Status: "success", Message: "user registered"})
}

func (s *HTTPServer) Login(c echo.Context) error {
	req := models.LoginReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := s.svc.Identity.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.LoginResp{
		Token: res.Token,
		User: models.UserResp{
			Email: res.User.Email,
			Name:  res.User.Name,
			Role:  res.User.Role,
		},
	})
}

func (s *HTTPServer) UserGet(c echo.Context) error {
	p, err := GetPrincipalFromContext(c)
	if err != nil {
		return err
	}

	profile, err := s.svc.Identity.CurrentUser(c.Request().Context(), p.Email)
	if err != nil {
		return err
	}
	prefs := profile.Preferences
	if prefs == nil {
		prefs = []string{}
	}
	return c.JSON(http.StatusOK, models.ProfileResp{
		Name:        profile.Name,
		Email:       profile.Email,
		Preferences: prefs,
	})
}

func (s *HTTPServer) UserDelete(c echo.Context) error {
	p, err := GetPrincipalFromContext(c)
	if err != nil {
		return err
	}

	if err := s.svc.Identity.DeleteCurrentUser(c.Request().Context(), p.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.StatusResp{Status: "success", Message: "user deleted"})
}

func (s *HTTPServer) ActivityList(c echo.Context) error {
	groups, err := s.svc.Catalog.ListActivities(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewGroupsResp(groups))
}

func (s *HTTPServer) ActivityCreate(c echo.Context) error {
	req := models.ActivityReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	category := req.Category
	if category == nil || strings.TrimSpace(*category) == "" {
		category = req.Categoria
	}

	a, err := s.svc.Catalog.CreateActivity(c.Request().Context(), service.ActivityInput{
		Name:     req.Nombre,
		Place:    req.Place,
		Time:     req.Time,
		Category: category,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, models.NewActivityResp(*a))
}

func (s *HTTPServer) ActivityDelete(c echo.Context) error {
	name, err := GetParam(c, "name")
	if err != nil {
		return err
	}

	if err := s.svc.Catalog.DeleteActivity(c.Request().Context(), name); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.StatusResp{Status: "success", Message: "activity '" + name + "' deleted"})
}

func (s *HTTPServer) ActivityLike(c echo.Context) error {
	p, name, err := principalAndName(c)
	if err != nil {
		return err
	}

	if err := s.svc.Preferences.LikeActivity(c.Request().Context(), p.Email, name); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.StatusResp{Status: "success", Message: "activity '" + name + "' liked"})
}

func (s *HTTPServer) ActivityUnlike(c echo.Context) error {
	p, name, err := principalAndName(c)
	if err != nil {
		return err
	}

	if err := s.svc.Preferences.UnlikeActivity(c.Request().Context(), p.Email, name); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.StatusResp{Status: "success", Message: "activity '" + name + "' unliked"})
}

func (s *HTTPServer) PreferenceList(c echo.Context) error {
	p, err := GetPrincipalFromContext(c)
	if err != nil {
		return err
	}

	groups, err := s.svc.Preferences.ListMyPreferences(c.Request().Context(), p.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewGroupsResp(groups))
}

func (s *HTTPServer) PreferenceAdd(c echo.Context) error {
	p, err := GetPrincipalFromContext(c)
	if err != nil {
		return err
	}

	req := models.PreferencesReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.svc.Preferences.AddPreferences(c.Request().Context(), p.Email, req.Activities); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.StatusResp{Status: "success", Message: "preferences updated"})
}

func (s *HTTPServer) PreferenceDelete(c echo.Context) error {
	p, name, err := principalAndName(c)
	if err != nil {
		return err
	}

	if err := s.svc.Preferences.RemovePreference(c.Request().Context(), p.Email, name); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.StatusResp{Status: "success", Message: "preference '" + name + "' removed"})
}

func (s *HTTPServer) RecommendationList(c echo.Context) error {
	p, err := GetPrincipalFromContext(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid query param 'limit'")
		}
	}

	groups, err := s.svc.Recommender.GetRecommendations(c.Request().Context(), p.Email, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewGroupsResp(groups))
}

func (s *HTTPServer) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := s.svc.Tokens.ValidateToken(extractToken(c.Request()))
		if err != nil {
			return err
		}

		c.Set(principalKey, p)
		return next(c)
	}
}

func (s *HTTPServer) requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := GetPrincipalFromContext(c)
			if err != nil {
				return err
			}
			if err := s.svc.Guard.RequireRole(p, role); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func (s *HTTPServer) authorize(resource, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := GetPrincipalFromContext(c)
			if err != nil {
				return err
			}
			if err := s.svc.Guard.Authorize(p, resource, action); err != nil {
				return err
			}
			return next(c)
		}
	}
}

////////

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("schedule", func(fl validator.FieldLevel) bool {
		return service.ValidSchedule(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func BindAndValidate(c echo.Context, v interface{}) error {
	var err error
	if err = c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err = c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func GetPrincipalFromContext(c echo.Context) (*auth.Principal, error) {
	p, ok := c.Get(principalKey).(*auth.Principal)
	if !ok || p == nil {
		return nil, errors.New("no principal found in context")
	}
	return p, nil
}

func GetParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if unescaped, err := url.PathUnescape(value); err == nil {
		value = unescaped
	}
	if strings.TrimSpace(value) == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return value, nil
}

func principalAndName(c echo.Context) (*auth.Principal, string, error) {
	p, err := GetPrincipalFromContext(c)
	if err != nil {
		return nil, "", err
	}
	name, err := GetParam(c, "name")
	if err != nil {
		return nil, "", err
	}
	return p, name, nil
}

func extractToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
