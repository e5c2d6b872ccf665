package api

import (
	"errors"
	"net/http"
	"strconv"

	"ecommerce-backend/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JwtCustomClaims is the token payload the auth collaborator issues:
// the caller's id plus a customer/admin role.
type JwtCustomClaims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

const roleAdmin = "admin"

// currentUser extracts the authenticated caller from the JWT
// middleware. The second return is true for admin callers.
func currentUser(c echo.Context) (int, bool, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, false, apperr.Forbidden("missing or invalid token")
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok || claims.UserID == 0 {
		return 0, false, apperr.Forbidden("missing or invalid token")
	}
	return claims.UserID, claims.Role == roleAdmin, nil
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeValidation, apperr.CodeInsufficientStock, apperr.CodeInvalidState:
		return http.StatusBadRequest
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError maps taxonomy errors onto HTTP statuses. Stock errors
// carry their structured shortfall so clients can render it.
func respondError(c echo.Context, err error) error {
	code := apperr.CodeOf(err)

	var stockErr *apperr.StockError
	if errors.As(err, &stockErr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   stockErr.Error(),
			"code":    string(apperr.CodeInsufficientStock),
			"details": stockErr,
		})
	}

	message := err.Error()
	if code == apperr.CodeInternal {
		message = "internal server error"
	}
	return c.JSON(statusFor(code), map[string]string{"error": message})
}

func intParam(c echo.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperr.Validation("invalid %s", name)
	}
	return value, nil
}

func intQuery(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
