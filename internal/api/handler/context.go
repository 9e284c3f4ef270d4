package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Identity middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - the customer role requires a customer id; without it the request is
//     structurally valid but operationally unusable — reject with 401.
func ctxIdentity(c echo.Context) (role, customerID string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	customerID, _ = c.Get("customer_id").(string)
	if role == domain.RoleCustomer && customerID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing customer identity")
	}

	return role, customerID, nil
}
