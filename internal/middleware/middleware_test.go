package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

type fakeTokens struct {
	claims *models.JWTClaims
	err    error
}

func (f fakeTokens) ValidateToken(string) (*models.JWTClaims, error) { return f.claims, f.err }

type fakeSessions struct {
	user *models.User
}

func (f fakeSessions) CurrentUser(context.Context) (*models.User, error) {
	if f.user == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "no active session")
	}
	return f.user, nil
}

type observedRequest struct {
	path   string
	status int
}

type fakeObserver struct {
	seen []observedRequest
}

func (f *fakeObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.seen = append(f.seen, observedRequest{path: path, status: status})
}

func claimsFor(userID, sessionID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{ID: sessionID}}
}

func newProtectedRouter(tokens tokenValidator, sessions sessionLookup, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", JWT(tokens, sessions), RequireRoles(roles...), func(c *gin.Context) {
		user, _ := UserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r
}

func doRequest(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAcceptsLiveSession(t *testing.T) {
	warden := &models.User{ID: "u1", Role: models.RoleWarden, SessionID: "s1"}
	r := newProtectedRouter(fakeTokens{claims: claimsFor("u1", "s1")}, fakeSessions{user: warden}, models.RoleWarden, models.RoleAdmin)

	w := doRequest(r, "Bearer token")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u1", body["id"])
}

func TestJWTRejections(t *testing.T) {
	warden := &models.User{ID: "u1", Role: models.RoleWarden, SessionID: "s1"}
	cases := []struct {
		name     string
		tokens   fakeTokens
		sessions fakeSessions
		header   string
		status   int
	}{
		{name: "missing header", tokens: fakeTokens{claims: claimsFor("u1", "s1")}, sessions: fakeSessions{user: warden}, status: http.StatusUnauthorized},
		{name: "malformed header", tokens: fakeTokens{claims: claimsFor("u1", "s1")}, sessions: fakeSessions{user: warden}, header: "Token abc", status: http.StatusUnauthorized},
		{name: "invalid token", tokens: fakeTokens{err: appErrors.Wrap(errors.New("bad"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")}, sessions: fakeSessions{user: warden}, header: "Bearer x", status: http.StatusUnauthorized},
		{name: "logged out", tokens: fakeTokens{claims: claimsFor("u1", "s1")}, sessions: fakeSessions{}, header: "Bearer x", status: http.StatusUnauthorized},
		{name: "other session", tokens: fakeTokens{claims: claimsFor("u2", "s1")}, sessions: fakeSessions{user: warden}, header: "Bearer x", status: http.StatusUnauthorized},
		{name: "earlier login", tokens: fakeTokens{claims: claimsFor("u1", "s0")}, sessions: fakeSessions{user: warden}, header: "Bearer x", status: http.StatusUnauthorized},
		{name: "token without id", tokens: fakeTokens{claims: claimsFor("u1", "")}, sessions: fakeSessions{user: warden}, header: "Bearer x", status: http.StatusUnauthorized},
		{name: "session without id", tokens: fakeTokens{claims: claimsFor("u1", "")}, sessions: fakeSessions{user: &models.User{ID: "u1", Role: models.RoleWarden}}, header: "Bearer x", status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newProtectedRouter(tc.tokens, tc.sessions, models.RoleWarden)
			w := doRequest(r, tc.header)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRequireRolesForbidden(t *testing.T) {
	warden := &models.User{ID: "u1", Role: models.RoleWarden, SessionID: "s1"}
	r := newProtectedRouter(fakeTokens{claims: claimsFor("u1", "s1")}, fakeSessions{user: warden}, models.RoleAdmin)

	w := doRequest(r, "Bearer token")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &fakeObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/students/1", "/nowhere"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, observer.seen, 2)
	assert.Equal(t, observedRequest{path: "/students/:id", status: http.StatusNoContent}, observer.seen[0])
	assert.Equal(t, observedRequest{path: "unmatched", status: http.StatusNotFound}, observer.seen[1])
}
