package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWTSetsPrincipal(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "talentdesk", TTL: time.Minute}
	tok, err := j.Issue(auth.Principal{ID: "u1", Role: domain.RoleClient, Email: "c@example.com"})
	require.NoError(t, err)

	var got auth.Principal
	r := gin.New()
	r.GET("/x", AuthJWT(j), func(c *gin.Context) {
		got, _ = auth.PrincipalFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, serve(r, tok).Code)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, domain.RoleClient, got.Role)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, tok+"x").Code)
}

func TestRequirePermission(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "talentdesk", TTL: time.Minute}
	r := gin.New()
	r.GET("/x", AuthJWT(j), RequirePermission(auth.CanManageCandidates), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	staff, _ := j.Issue(auth.Principal{ID: "s", Role: domain.RoleCustomerService})
	client, _ := j.Issue(auth.Principal{ID: "c", Role: domain.RoleClient})
	ghost, _ := j.Issue(auth.Principal{ID: "g", Role: "superuser"})

	assert.Equal(t, http.StatusNoContent, serve(r, staff).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, client).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, ghost).Code)
}

type userMap map[string]*domain.User

func (m userMap) FindByID(_ context.Context, id string) (*domain.User, error) {
	if id == "broken" {
		return nil, errors.New("store down")
	}
	return m[id], nil
}

func TestRefreshPrincipalUsesStoredRole(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "talentdesk", TTL: time.Minute}
	users := userMap{"demoted": {ID: "demoted", Role: domain.RoleClient, Email: "d@example.com"}}

	var got auth.Principal
	r := gin.New()
	r.GET("/x", AuthJWT(j), RefreshPrincipal(users), RequirePermission(auth.CanManageCandidates), func(c *gin.Context) {
		got, _ = auth.PrincipalFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	demoted, _ := j.Issue(auth.Principal{ID: "demoted", Role: domain.RoleAdmin})
	assert.Equal(t, http.StatusForbidden, serve(r, demoted).Code)

	users["demoted"].Role = domain.RoleCustomerService
	assert.Equal(t, http.StatusNoContent, serve(r, demoted).Code)
	assert.Equal(t, domain.RoleCustomerService, got.Role)
	assert.Equal(t, "d@example.com", got.Email)

	deleted, _ := j.Issue(auth.Principal{ID: "gone", Role: domain.RoleAdmin})
	assert.Equal(t, http.StatusUnauthorized, serve(r, deleted).Code)

	broken, _ := j.Issue(auth.Principal{ID: "broken", Role: domain.RoleAdmin})
	assert.Equal(t, http.StatusInternalServerError, serve(r, broken).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(0.0001, 1), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "").Code)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimitPerIP(0.0001, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := func(ip string) int {
		rq := httptest.NewRequest(http.MethodGet, "/x", nil)
		rq.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, rq)
		return w.Code
	}
	assert.Equal(t, http.StatusNoContent, req("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, req("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, req("10.0.0.2"))
}

func TestRequestIDEchoed(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "rid-1", w.Body.String())
	assert.Equal(t, "rid-1", w.Header().Get(KeyRequestID))

	w = serve(r, "")
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
}

func TestRequestIDRejectsOversizedHeader(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	long := make([]byte, maxRequestIDLen+1)
	for i := range long {
		long[i] = 'a'
	}
	req.Header.Set(KeyRequestID, string(long))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, string(long), w.Header().Get(KeyRequestID))
	assert.Len(t, w.Header().Get(KeyRequestID), 36)
}
