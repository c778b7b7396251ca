package auth

import (
	_ "embed"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/recommender-back/internal/apperr"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Guard answers role based access questions from the embedded casbin policy.
type Guard struct {
	enforcer *casbin.SyncedEnforcer
}

func NewGuard() (*Guard, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, errors.Wrap(err, "load casbin model")
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, errors.Wrap(err, "create casbin enforcer")
	}
	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Guard{enforcer: enforcer}, nil
}

func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		var err error
		switch {
		case parts[0] == "p" && len(parts) == 4:
			_, err = enforcer.AddPolicy(parts[1], parts[2], parts[3])
		case parts[0] == "g" && len(parts) == 3:
			_, err = enforcer.AddGroupingPolicy(parts[1], parts[2])
		default:
			err = errors.Errorf("malformed policy line %q", line)
		}
		if err != nil {
			return errors.Wrap(err, "load policy")
		}
	}
	return nil
}

// RequireRole fails with apperr.ErrAuthorization unless the principal holds
// role, directly or through inheritance.
func (g *Guard) RequireRole(p *Principal, role string) error {
	if p == nil {
		return errors.Wrap(apperr.ErrAuthentication, "no principal")
	}
	if p.Role == role {
		return nil
	}
	ok, err := g.enforcer.HasRoleForUser(p.Role, role)
	if err != nil {
		return errors.Wrap(err, "check role")
	}
	if !ok {
		return errors.Wrapf(apperr.ErrAuthorization, "role '%s' required", role)
	}
	return nil
}

// Authorize checks whether the principal's role may perform action on resource.
func (g *Guard) Authorize(p *Principal, resource, action string) error {
	if p == nil {
		return errors.Wrap(apperr.ErrAuthentication, "no principal")
	}
	ok, err := g.enforcer.Enforce(p.Role, resource, action)
	if err != nil {
		return errors.Wrap(err, "enforce policy")
	}
	if !ok {
		return errors.Wrapf(apperr.ErrAuthorization, "%s on %s is not allowed for role '%s'", action, resource, p.Role)
	}
	return nil
}
