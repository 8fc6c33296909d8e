package middleware

import (
	"net/http"

	"quickdeliver/internal/models"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// AuthClaims is the token payload issued at login and verified on every
// protected request.
type AuthClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWT returns the bearer-token middleware. On success it resolves the principal
// into the echo context under "userID", "userRole" and "userEmail", which is
// what every handler downstream reads. Missing, expired or malformed tokens are
// all rejected with 401 before any handler runs.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(AuthClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token := c.Get("user").(*jwt.Token)
			claims := token.Claims.(*AuthClaims)
			c.Set("userID", claims.UserID)
			c.Set("userRole", claims.Role)
			c.Set("userEmail", claims.Email)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "missing or invalid token"})
		},
	})
}
