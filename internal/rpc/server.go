package rpc

import (
	"context"
	"encoding/json"
	"net"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/models"
	"github.com/Rogue-Bear-Innovations/recommender-back/internal/service"
)

type principalCtxKey struct{}

// resources maps authenticated methods to the policy resource they read.
var resources = map[string]string{
	methodListPreferences:    "preferences",
	methodGetRecommendations: "recommendations",
}

type (
	CatalogService interface {
		ListActivities(ctx context.Context) ([]models.ActivityGroup, error)
	}

	PreferenceService interface {
		ListMyPreferences(ctx context.Context, email string) ([]models.ActivityGroup, error)
	}

	RecommendationService interface {
		GetRecommendations(ctx context.Context, email string, limit int) ([]models.ActivityGroup, error)
	}

	TokenVerifier interface {
		ValidateToken(token string) (*auth.Principal, error)
	}

	AccessGuard interface {
		Authorize(p *auth.Principal, resource, action string) error
	}

	Services struct {
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
		Catalog     *service.Catalog
		Preferences *service.Preferences
		Recommender *service.Recommender
		Tokens      *auth.Manager
		Guard       *auth.Guard
	}

	RecommenderServerImpl struct {
		svc    Services
		logger *zap.SugaredLogger
	}
)

func NewGRPCServer(p Params) *RecommenderServerImpl {
	instance := &RecommenderServerImpl{
		svc: Services{
			Catalog:     p.Catalog,
			Preferences: p.Preferences,
			Recommender: p.Recommender,
			Tokens:      p.Tokens,
			Guard:       p.Guard,
		},
		logger: p.Logger,
	}

	grpcServer := NewServer(instance)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", p.Config.Host+":"+p.Config.GRPCPort)
			if err != nil {
				return errors.Wrap(err, "listen grpc")
			}

			go func() {
				if err := grpcServer.Serve(lis); err != nil {
					p.Logger.Errorw("gRPC server failed.", "error", err)
				}
			}()
			p.Logger.Infow("gRPC server listening.", "addr", lis.Addr().String())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("Stopping GRPC server.")
			grpcServer.GracefulStop()
			return nil
		},
	})

	return instance
}

// NewServer registers impl on a fresh grpc.Server guarded by the auth interceptor.
func NewServer(impl *RecommenderServerImpl) *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(impl.authInterceptor))
	RegisterRecommenderServer(s, impl)
	return s
}

func (s *RecommenderServerImpl) ListActivities(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	groups, err := s.svc.Catalog.ListActivities(ctx)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return groupsStruct(groups)
}

func (s *RecommenderServerImpl) ListPreferences(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	p := principalFromContext(ctx)
	groups, err := s.svc.Preferences.ListMyPreferences(ctx, p.Email)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return groupsStruct(groups)
}

func (s *RecommenderServerImpl) GetRecommendations(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	limit := 0
	if v, ok := in.GetFields()["limit"]; ok {
		n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
		if !isNumber {
			return nil, status.Error(codes.InvalidArgument, "limit must be a number")
		}
		limit = int(n.NumberValue)
	}

	p := principalFromContext(ctx)
	groups, err := s.svc.Recommender.GetRecommendations(ctx, p.Email, limit)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return groupsStruct(groups)
}

func (s *RecommenderServerImpl) authInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resource, protected := resources[info.FullMethod]
	if !protected {
		return handler(ctx, req)
	}

	p, err := s.svc.Tokens.ValidateToken(tokenFromMetadata(ctx))
	if err != nil {
		return nil, s.toStatus(err)
	}
	if err := s.svc.Guard.Authorize(p, resource, "read"); err != nil {
		return nil, s.toStatus(err)
	}

	return handler(context.WithValue(ctx, principalCtxKey{}, p), req)
}

func (s *RecommenderServerImpl) toStatus(err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return status.Error(codes.InvalidArgument, apperr.Message(err))
	case errors.Is(err, apperr.ErrConflict):
		return status.Error(codes.AlreadyExists, apperr.Message(err))
	case errors.Is(err, apperr.ErrAuthentication):
		return status.Error(codes.Unauthenticated, apperr.Message(err))
	case errors.Is(err, apperr.ErrAuthorization):
		return status.Error(codes.PermissionDenied, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		return status.Error(codes.NotFound, apperr.Message(err))
	case errors.Is(err, apperr.ErrStore):
		s.logger.Errorw("gRPC request failed.", "error", err)
		return status.Error(codes.Unavailable, "graph store unavailable")
	default:
		s.logger.Errorw("gRPC request failed.", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func principalFromContext(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(principalCtxKey{}).(*auth.Principal)
	if p == nil {
		return &auth.Principal{}
	}
	return p
}

func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	parts := strings.SplitN(values[0], " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// groupsStruct reuses the HTTP response shape so both transports agree.
func groupsStruct(groups []models.ActivityGroup) (*structpb.Struct, error) {
	raw, err := json.Marshal(models.NewGroupsResp(groups))
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}
