package middleware

import (
	"net/http"
	"os"
	"strings"

	"tourportal/internal/auth"
	"tourportal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const principalKey = "principal"

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only, never for production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

func extractToken(c *gin.Context) (string, bool) {
	// Try cookie first, fallback to Authorization header
	tokenString, err := c.Cookie("access_token")
	if err == nil && tokenString != "" {
		return tokenString, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func parsePrincipal(tokenString string) (auth.Principal, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return auth.Anonymous, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Anonymous, false
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	id, err := uuid.Parse(sub)
	if err != nil || !auth.ValidRole(role) {
		return auth.Anonymous, false
	}

	return auth.Principal{ID: id, Role: role}, true
}

// RequireRoles validates the JWT and admits only the listed roles. The
// resolved Principal is stored in the gin context for handlers.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		principal, ok := parsePrincipal(tokenString)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		allowed := false
		for _, role := range allowedRoles {
			if principal.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// OptionalPrincipal resolves the Principal when a valid token is present but
// lets anonymous requests through. Used by public endpoints that still track
// page views or tailor responses to logged-in visitors.
func OptionalPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := extractToken(c); ok {
			if principal, ok := parsePrincipal(tokenString); ok {
				c.Set(principalKey, principal)
			}
		}
		c.Next()
	}
}

// CurrentPrincipal returns the Principal resolved by the middleware, or
// auth.Anonymous when the request is unauthenticated.
func CurrentPrincipal(c *gin.Context) auth.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(auth.Principal); ok {
			return p
		}
	}
	return auth.Anonymous
}
