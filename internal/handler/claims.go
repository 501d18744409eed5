package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"cardpolicy/internal/auth"
	"cardpolicy/internal/errors"
)

// ContextKeyUser is where the JWT middleware stores the parsed token.
const ContextKeyUser = "user"

// cardholderID returns the cardholder the request's token was issued to.
func cardholderID(c echo.Context) (string, error) {
	token, ok := c.Get(ContextKeyUser).(*jwt.Token)
	if !ok {
		return "", unauthorized()
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.CardholderID == "" {
		return "", unauthorized()
	}
	return claims.CardholderID, nil
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "invalid token",
		Code:  "UNAUTHORIZED",
	})
}

func mapError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
