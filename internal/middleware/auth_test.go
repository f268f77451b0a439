package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"invoscope/internal/authz"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(GetJWTSecret())
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// guardRouter mounts a single Admin-guarded route that echoes the resolved
// tenant scope, so tests can observe both the denial and the pass-through
// side of the middleware.
func guardRouter(requiredRoles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/secrets", RequireRoles(requiredRoles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": TenantScope(c).String()})
	})
	return router
}

func TestRequireRoles_Denials(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "missing token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "not.a.jwt",
		},
		{
			name: "expired token",
			token: signToken(t, jwt.MapClaims{
				"sub":       uuid.New().String(),
				"roles":     []string{authz.RoleAdmin},
				"tenant_id": tenantID.String(),
				"exp":       time.Now().Add(-time.Hour).Unix(),
			}),
		},
		{
			name: "insufficient role",
			token: signToken(t, jwt.MapClaims{
				"sub":       uuid.New().String(),
				"roles":     []string{authz.RoleUser},
				"tenant_id": tenantID.String(),
			}),
		},
		{
			name: "non-super-admin without tenant claim",
			token: signToken(t, jwt.MapClaims{
				"sub":   uuid.New().String(),
				"roles": []string{authz.RoleAdmin},
			}),
		},
	}

	router := guardRouter(authz.RoleSuperAdmin, authz.RoleAdmin)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/secrets", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			want := "/?from=" + url.QueryEscape("/api/secrets")
			if loc := rec.Header().Get("Location"); loc != want {
				t.Errorf("Location = %q, want %q", loc, want)
			}
		})
	}
}

func TestRequireRoles_DenialPreservesQueryString(t *testing.T) {
	router := guardRouter(authz.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/secrets?page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	want := "/?from=" + url.QueryEscape("/api/secrets?page=2&limit=10")
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("Location = %q, want %q", loc, want)
	}
}

func TestRequireRoles_Passthrough(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name       string
		claims     jwt.MapClaims
		wantTenant string
	}{
		{
			name: "admin scoped to own tenant",
			claims: jwt.MapClaims{
				"sub":       uuid.New().String(),
				"roles":     []string{authz.RoleAdmin},
				"tenant_id": tenantID.String(),
			},
			wantTenant: tenantID.String(),
		},
		{
			name: "super admin resolves to the zero tenant",
			claims: jwt.MapClaims{
				"sub":   uuid.New().String(),
				"roles": []string{authz.RoleSuperAdmin},
			},
			wantTenant: uuid.Nil.String(),
		},
	}

	router := guardRouter(authz.RoleSuperAdmin, authz.RoleAdmin)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/secrets", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, tt.claims))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			if got := rec.Body.String(); got != `{"tenant_id":"`+tt.wantTenant+`"}` {
				t.Errorf("body = %s, want tenant %s", got, tt.wantTenant)
			}
		})
	}
}

func TestRequireRoles_NoArgumentsAdmitsAnyRole(t *testing.T) {
	router := guardRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/secrets", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
		"sub":       uuid.New().String(),
		"roles":     []string{authz.RoleUser},
		"tenant_id": uuid.New().String(),
	}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireRoles_CookieToken(t *testing.T) {
	router := guardRouter(authz.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/secrets", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, jwt.MapClaims{
		"sub":       uuid.New().String(),
		"roles":     []string{authz.RoleAdmin},
		"tenant_id": uuid.New().String(),
	})})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
