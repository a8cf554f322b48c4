package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/assessment-scheduler/internal/config"
	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

const userContextKey = "user"

var errMissingToken = errors.New("missing bearer token")

// TokenVerifier turns a bearer token into the calling user.
type TokenVerifier interface {
	Verify(token string) (models.User, error)
}

// CasdoorVerifier checks tokens signed by the configured casdoor application.
type CasdoorVerifier struct {
	client *casdoorsdk.Client
}

func NewCasdoorVerifier(cfg config.CasdoorConfig) *CasdoorVerifier {
	return &CasdoorVerifier{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Certificate,
			cfg.Organization,
			cfg.Application,
		),
	}
}

func (v *CasdoorVerifier) Verify(token string) (models.User, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:       claims.Name,
		FullName: claims.DisplayName,
		Email:    claims.Email,
		Role:     roleFor(claims.IsAdmin, claims.Tag),
	}, nil
}

// roleFor maps casdoor's admin flag and user tag onto a scheduler role.
// Untagged users only get read access.
func roleFor(isAdmin bool, tag string) models.UserRole {
	if isAdmin {
		return models.RoleAdmin
	}
	switch models.UserRole(strings.ToLower(strings.TrimSpace(tag))) {
	case models.RoleAdmin:
		return models.RoleAdmin
	case models.RoleTeacher:
		return models.RoleTeacher
	default:
		return models.RoleViewer
	}
}

func bearerToken(header string) (string, error) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errMissingToken
	}
	return strings.TrimSpace(token), nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller under the "user" key.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
			return
		}

		user, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token",
				Details: err.Error(),
			})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole lets through only callers holding one of roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "Forbidden - insufficient permissions"})
	}
}
