package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	pkgerrors "github.com/shiv90154/CarrerPath-sub002/pkg/errors"
	"go.uber.org/zap"
)

// AuthUser represents an authenticated caller from JWT
type AuthUser struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Actor converts the token subject into the workflow's caller identity.
func (u *AuthUser) Actor() entity.Actor {
	return entity.Actor{ID: u.UserID, Role: u.Role}
}

// contextKey is used for storing user in context
type contextKey string

const (
	userContextKey contextKey = "authenticated_user"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret    string
	AdminRole string // role claim value that grants approval privilege
	Logger    *zap.Logger
	SkipPaths []string // Paths to skip JWT validation
}

// JWTMiddleware validates HS256 bearer tokens carrying sub and role claims
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	adminRole := config.AdminRole
	if adminRole == "" {
		adminRole = entity.RoleAdmin
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Skip JWT validation for certain paths
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			// Extract token from Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Authorization header required",
					"code":  "MISSING_AUTH_HEADER",
				})
			}

			// Check Bearer prefix
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid authorization header format. Expected: Bearer <token>",
					"code":  "INVALID_AUTH_FORMAT",
				})
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(config.Secret), nil
			})

			if err != nil {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid or expired token",
					"code":  "INVALID_TOKEN",
				})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				return invalidClaims(c, config.Logger, path)
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				return invalidClaims(c, config.Logger, path)
			}

			email, _ := claims["email"].(string)
			role, _ := claims["role"].(string)

			authUser := &AuthUser{
				UserID: subject,
				Email:  email,
				Role:   entity.RoleBuyer,
			}
			if role == adminRole {
				authUser.Role = entity.RoleAdmin
			}

			// Store user in request context
			ctx := context.WithValue(c.Request().Context(), userContextKey, authUser)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", subject)

			config.Logger.Debug("User authenticated successfully",
				zap.String("user_id", subject),
				zap.String("role", authUser.Role),
				zap.String("path", path))

			return next(c)
		}
	}
}

func invalidClaims(c echo.Context, logger *zap.Logger, path string) error {
	logger.Warn("Invalid JWT claims",
		zap.String("path", path))
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error": "Invalid token claims",
		"code":  "INVALID_CLAIMS",
	})
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(c echo.Context) (*AuthUser, error) {
	user, ok := c.Request().Context().Value(userContextKey).(*AuthUser)
	if !ok || user == nil {
		return nil, fmt.Errorf("no authenticated user found in context")
	}
	return user, nil
}

// RequireAuth returns the authenticated user or a 401 for handlers to return as is
func RequireAuth(c echo.Context) (*AuthUser, error) {
	user, err := GetUserFromContext(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, pkgerrors.ErrorResponse{
			Error: "Authentication required",
			Code:  "AUTH_REQUIRED",
		})
	}
	return user, nil
}
