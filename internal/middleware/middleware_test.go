package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/metrics"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
)

const testSecret = "middleware-test-secret-with-32-characters"

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sign(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          sub,
		"email":        sub + "@example.com",
		"exp":          exp.Unix(),
		"app_metadata": map[string]any{"role": role},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

type refresher struct {
	token string
	err   error
}

func (r *refresher) AuthenticateUser(context.Context, string, string) (*types.TokenResponse, error) {
	return nil, errors.New("not used")
}

func (r *refresher) RefreshToken(_ context.Context, refreshToken string) (*types.TokenResponse, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &types.TokenResponse{Session: types.Session{
		AccessToken:  r.token,
		RefreshToken: refreshToken + "-rotated",
		ExpiresIn:    3600,
	}}, nil
}

type seen struct {
	principal *models.Principal
	token     string
}

func identityRouter(identity *services.IdentityService, got *seen) *gin.Engine {
	r := gin.New()
	r.Use(Identity(identity, false, discardLogger()))
	r.GET("/whoami", func(c *gin.Context) {
		got.principal, _ = helpers.CurrentPrincipal(c)
		got.token, _ = models.AccessTokenFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestIdentity(t *testing.T) {
	validator := helpers.NewTokenValidatorFromJWKS(nil, testSecret)
	valid := sign(t, "user-1", "admin", time.Now().Add(time.Hour))
	expired := sign(t, "user-1", "admin", time.Now().Add(-time.Hour))

	tests := []struct {
		name       string
		repo       models.IdentityRepo
		setup      func(*http.Request)
		wantID     string
		wantToken  string
		wantCookie string
	}{
		{
			name: "anonymous",
		},
		{
			name:      "bearer header",
			setup:     func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) },
			wantID:    "user-1",
			wantToken: valid,
		},
		{
			name:      "access token cookie",
			setup:     func(r *http.Request) { r.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: valid}) },
			wantID:    "user-1",
			wantToken: valid,
		},
		{
			name:  "invalid token without refresh",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
		},
		{
			name: "expired token is refreshed",
			repo: &refresher{token: valid},
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: expired})
				r.AddCookie(&http.Cookie{Name: helpers.RefreshTokenCookie, Value: "r1"})
			},
			wantID:     "user-1",
			wantToken:  valid,
			wantCookie: "r1-rotated",
		},
		{
			name: "missing access cookie is refreshed",
			repo: &refresher{token: valid},
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: helpers.RefreshTokenCookie, Value: "r1"})
			},
			wantID:     "user-1",
			wantToken:  valid,
			wantCookie: "r1-rotated",
		},
		{
			name: "refresh failure stays anonymous",
			repo: &refresher{err: errors.New("refresh token revoked")},
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: expired})
				r.AddCookie(&http.Cookie{Name: helpers.RefreshTokenCookie, Value: "r1"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := &seen{}
			router := identityRouter(services.NewIdentityService(tt.repo, validator), got)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.setup != nil {
				tt.setup(req)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
			if tt.wantID == "" {
				assert.Nil(t, got.principal)
				assert.Empty(t, got.token)
			} else {
				require.NotNil(t, got.principal)
				assert.Equal(t, tt.wantID, got.principal.ID)
				assert.Equal(t, models.RoleAdmin, got.principal.Role)
				assert.Equal(t, tt.wantToken, got.token)
			}

			if tt.wantCookie != "" {
				var refresh *http.Cookie
				for _, ck := range w.Result().Cookies() {
					if ck.Name == helpers.RefreshTokenCookie {
						refresh = ck
					}
				}
				require.NotNil(t, refresh)
				assert.Equal(t, tt.wantCookie, refresh.Value)
				assert.True(t, refresh.HttpOnly)
			}
		})
	}
}

func TestIdentity_NilServiceIsAnonymous(t *testing.T) {
	got := &seen{}
	router := identityRouter(nil, got)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, got.principal)
}

func TestRequireAuth(t *testing.T) {
	r := gin.New()
	r.GET("/open", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/signed-in", func(c *gin.Context) {
		helpers.SetPrincipal(c, &models.Principal{ID: "user-1", Role: models.RoleMember})
	}, RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/signed-in", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Get("request_id")
		c.String(http.StatusOK, id.(string))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(discardLogger()))
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })
	r.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("already answered"))
		c.JSON(http.StatusBadGateway, helpers.ErrorResponse("upstream failed"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/handled", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "Internal server error")
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/venues/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/venues/a", "/venues/b", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count, err := testutil.GatherAndCount(m.Registry(), "rendez_http_requests_total")
	require.NoError(t, err)
	// one series for the matched route, one for unmatched
	assert.Equal(t, 2, count)
}
