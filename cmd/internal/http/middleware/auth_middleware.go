package middleware

import (
	"net/http"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindActiveBySub(sub string) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	UserRepo UserRepository
	Verifier utils.TokenVerifier
}

// NewAuthMiddleware resolves the bearer token to an active local account
// and stores it under utils.ContextUserKey.
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := utils.ParseTokenDataCtx(c, cfg.Verifier)
			if err != nil {
				log.Debugf("rejected token on %s: %v", c.Path(), err)
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := cfg.UserRepo.FindActiveBySub(tokenData.Sub)
			if err != nil {
				log.Errorf("failed to fetch user by sub %s: %v", tokenData.Sub, err)
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// Disabled locally, or the registration was rolled back
				return c.JSON(http.StatusUnauthorized, apierror.IDPUserNotFoundError)
			}

			c.Set(utils.ContextUserKey, user)
			c.Set("sub", tokenData.Sub)
			return next(c)
		}
	}
}

// RequireRole lets through only the given roles. It must run after the
// auth middleware.
func RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, apierr := utils.GetUserFromContext(c)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			if !slices.Contains(roles, user.Role) {
				return c.JSON(http.StatusForbidden, apierror.WrongRoleError)
			}
			return next(c)
		}
	}
}
