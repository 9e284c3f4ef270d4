package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

// Identity headers set by the trusted edge gateway. The gateway terminates
// authentication; this service only consumes the resolved identity.
const (
	HeaderUserRole   = "X-User-Role"
	HeaderCustomerID = "X-Customer-Id"
)

// Identity reads the gateway identity headers and injects them into the
// request context for downstream handlers and the RBAC middleware.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Request().Header.Get(HeaderUserRole)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing identity headers")
			}
			switch role {
			case domain.RoleAdmin, domain.RoleCustomer, domain.RoleDriver:
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown role")
			}

			c.Set("role", role)
			c.Set("customer_id", c.Request().Header.Get(HeaderCustomerID))

			return next(c)
		}
	}
}
