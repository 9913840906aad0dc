package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

// RequireRole allows the request only when the caller's role is one of roles
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return unauthorizedError(c, "Authentication required")
			}
			if !allowed[user.Role] {
				log.Debug().Str("user_id", user.ID).Str("role", user.Role.String()).Str("path", c.Path()).Msg("Role not permitted")
				return forbiddenError(c, "Insufficient permissions")
			}
			return next(c)
		}
	}
}

// RequireAtLeast allows the request when the caller's role is min or higher
func RequireAtLeast(min domain.Role) echo.MiddlewareFunc {
	var roles []domain.Role
	for _, r := range []domain.Role{domain.RoleStaff, domain.RoleAccountant, domain.RoleAdmin} {
		if r.AtLeast(min) {
			roles = append(roles, r)
		}
	}
	return RequireRole(roles...)
}
