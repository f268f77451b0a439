package middleware

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"invoscope/internal/authz"
)

// Context keys set by the auth guard.
const (
	CtxUserID   = "userID"
	CtxRoles    = "userRoles"
	CtxTenantID = "tenantID"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	// access_token: 24h, refresh_token: 7 days
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

// redirectHome denies access without surfacing an error: the client is
// sent back to the home route with the attempted location preserved in the
// "from" query parameter for a potential post-auth redirect.
func redirectHome(c *gin.Context) {
	attempted := c.Request.URL.RequestURI()
	c.Redirect(http.StatusSeeOther, "/?from="+url.QueryEscape(attempted))
	c.Abort()
}

// extractToken reads the access token, cookie first with Authorization
// header fallback. Empty string means unauthenticated.
func extractToken(c *gin.Context) string {
	if tokenString, err := c.Cookie("access_token"); err == nil && tokenString != "" {
		return tokenString
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// RequireRoles is the route guard. It validates the JWT and checks the
// user's role set against the required one via authz.IsAuthorized; with no
// arguments any authenticated user passes. Denial is always a silent
// redirect to the home route, never an error response.
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			redirectHome(c)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			redirectHome(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			redirectHome(c)
			return
		}

		roles := rolesFromClaims(claims)
		if !authz.IsAuthorized(roles, requiredRoles) {
			redirectHome(c)
			return
		}

		tenantID, ok := tenantFromClaims(claims, roles)
		if !ok {
			redirectHome(c)
			return
		}

		c.Set(CtxUserID, claims["sub"])
		c.Set(CtxRoles, roles)
		c.Set(CtxTenantID, tenantID)

		c.Next()
	}
}

func rolesFromClaims(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"].([]interface{})
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}

// tenantFromClaims resolves the tenant scope for the request. Super Admins
// get the zero UUID, meaning unscoped access across all tenants; everyone
// else must carry a valid tenant_id claim.
func tenantFromClaims(claims jwt.MapClaims, roles []string) (uuid.UUID, bool) {
	if authz.IsAuthorized(roles, []string{authz.RoleSuperAdmin}) {
		return uuid.Nil, true
	}
	s, _ := claims["tenant_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// RolesFrom returns the authenticated user's roles from the gin context.
func RolesFrom(c *gin.Context) []string {
	if v, ok := c.Get(CtxRoles); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}

// TenantScope returns the tenant id queries must be restricted to.
// uuid.Nil means no restriction (Super Admin).
func TenantScope(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(CtxTenantID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// UserIDFrom returns the authenticated user's id, or uuid.Nil.
func UserIDFrom(c *gin.Context) uuid.UUID {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return uuid.Nil
	}
	s, ok := v.(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
