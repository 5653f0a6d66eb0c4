package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/auth"
	"github.com/iliyamo/cinema-showtime-service/internal/config"
	"github.com/iliyamo/cinema-showtime-service/internal/utils"
)

const testSecret = "test-secret"

type fakeProvider map[string]auth.Principal

func (f fakeProvider) Authenticate(_ context.Context, username, password string) (auth.Principal, error) {
	p, ok := f[username]
	if !ok || password != "pw" {
		return auth.Principal{}, auth.ErrInvalidCredentials
	}
	return p, nil
}

var accounts = fakeProvider{
	"user":  {Name: "user", Roles: []string{auth.RoleUser}},
	"admin": {Name: "admin", Roles: []string{auth.RoleAdmin, auth.RoleUser}},
	"guest": {Name: "guest"},
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer() *echo.Echo {
	e := echo.New()
	e.Use(Authenticate(accounts, testSecret, quietLogger()), Policy(DefaultRules()))
	ok := func(c echo.Context) error {
		p, _ := PrincipalFrom(c)
		return c.String(http.StatusOK, auth.ActorName(c.Request().Context())+"|"+p.Name)
	}
	e.GET("/healthz", ok)
	e.GET("/v1/movies", ok)
	e.GET("/v1/movies/:id", ok)
	e.GET("/v1/reviews", ok)
	e.DELETE("/v1/reviews/:id", ok)
	e.GET("/v1/showtimes", ok)
	e.POST("/v1/showtimes", ok)
	e.PUT("/v1/showtimes/:id", ok)
	e.POST("/v1/auth/token", ok)
	return e
}

func do(e *echo.Echo, method, path string, setAuth func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if setAuth != nil {
		setAuth(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func basic(user string) func(*http.Request) {
	return func(r *http.Request) { r.SetBasicAuth(user, "pw") }
}

func TestPolicyTable(t *testing.T) {
	e := newTestServer()
	cases := []struct {
		method, path, user string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/v1/movies", "", http.StatusUnauthorized},
		{http.MethodGet, "/v1/movies", "user", http.StatusOK},
		{http.MethodGet, "/v1/movies/3", "guest", http.StatusForbidden},
		{http.MethodGet, "/v1/reviews", "user", http.StatusOK},
		{http.MethodDelete, "/v1/reviews/4", "user", http.StatusForbidden},
		{http.MethodDelete, "/v1/reviews/4", "admin", http.StatusOK},
		{http.MethodGet, "/v1/showtimes", "user", http.StatusOK},
		{http.MethodPost, "/v1/showtimes", "", http.StatusUnauthorized},
		{http.MethodPost, "/v1/showtimes", "user", http.StatusForbidden},
		{http.MethodPost, "/v1/showtimes", "admin", http.StatusOK},
		{http.MethodPut, "/v1/showtimes/9", "user", http.StatusForbidden},
		{http.MethodPut, "/v1/showtimes/9", "admin", http.StatusOK},
		{http.MethodPost, "/v1/auth/token", "guest", http.StatusOK},
	}
	for _, tc := range cases {
		var setAuth func(*http.Request)
		if tc.user != "" {
			setAuth = basic(tc.user)
		}
		rec := do(e, tc.method, tc.path, setAuth)
		if rec.Code != tc.want {
			t.Fatalf("%s %s as %q: expected %d, got %d", tc.method, tc.path, tc.user, tc.want, rec.Code)
		}
	}
}

func TestUnauthorizedCarriesChallenge(t *testing.T) {
	e := newTestServer()
	rec := do(e, http.MethodGet, "/v1/movies", nil)
	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != Challenge {
		t.Fatalf("expected challenge %q, got %q", Challenge, got)
	}
}

func TestWrongPasswordRejected(t *testing.T) {
	e := newTestServer()
	rec := do(e, http.MethodGet, "/healthz", func(r *http.Request) { r.SetBasicAuth("user", "nope") })
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", rec.Code)
	}
}

func TestBearerToken(t *testing.T) {
	e := newTestServer()
	tok, err := utils.NewAccessToken(testSecret, "admin", []string{auth.RoleAdmin}, time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec := do(e, http.MethodPost, "/v1/showtimes", func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	})
	if rec.Code != http.StatusOK || rec.Body.String() != "admin|admin" {
		t.Fatalf("expected principal from token, got %d %q", rec.Code, rec.Body.String())
	}

	forged, _ := utils.NewAccessToken("other-secret", "admin", []string{auth.RoleAdmin}, time.Minute)
	rec = do(e, http.MethodGet, "/v1/movies", func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+forged.Token)
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", rec.Code)
	}
}

func TestMatchPath(t *testing.T) {
	cases := []struct {
		pattern, path string
		want          bool
	}{
		{"/v1/movies/**", "/v1/movies", true},
		{"/v1/movies/**", "/v1/movies/", true},
		{"/v1/movies/**", "/v1/movies/details/3", true},
		{"/v1/movies/**", "/v1/moviesx", false},
		{"/v1/reviews/*", "/v1/reviews/4", true},
		{"/v1/reviews/*", "/v1/reviews", false},
		{"/v1/reviews/*", "/v1/reviews/4/x", false},
		{"/v1/**", "/healthz", false},
	}
	for _, tc := range cases {
		if got := matchPath(tc.pattern, tc.path); got != tc.want {
			t.Fatalf("matchPath(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/movies/3", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/movies/:id")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "principal_route"}
	if got := rateKey(cfg, c); got != "rl:principal:anon:route:GET /v1/movies/:id" {
		t.Fatalf("unexpected anonymous key %q", got)
	}
	setPrincipal(c, auth.Principal{Name: "user"})
	cfg.KeyStrategy = "ip_principal"
	if got := rateKey(cfg, c); got != "rl:ip:10.0.0.1:principal:user" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestCacheEntryRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	bs, err := encodeEntry(http.StatusOK, hdr, []byte(`{"movieId":1}`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, got, body, ok := decodeEntry(bs)
	if !ok || status != http.StatusOK || string(body) != `{"movieId":1}` || got.Get(echo.HeaderContentType) != echo.MIMEApplicationJSON {
		t.Fatalf("unexpected decode: %d %v %q %v", status, got, body, ok)
	}
	if _, _, _, ok := decodeEntry(bs[:5]); ok {
		t.Fatal("expected short payload to be rejected")
	}
}

func TestCacheKeyIgnoresQueryWhenRouteOnly(t *testing.T) {
	e := echo.New()
	ctx := func(target string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	}
	cfg := config.CacheConfig{Prefix: "c", KeyStrategy: "route_query"}
	if cacheKey(cfg, ctx("/v1/movies?pageNo=0")) == cacheKey(cfg, ctx("/v1/movies?pageNo=1")) {
		t.Fatal("expected query to change the key")
	}
	cfg.KeyStrategy = "route"
	if cacheKey(cfg, ctx("/v1/movies?pageNo=0")) != cacheKey(cfg, ctx("/v1/movies?pageNo=1")) {
		t.Fatal("expected query to be ignored")
	}
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(
		ResponseCache(config.CacheConfig{Enabled: true}, nil, quietLogger()),
		RateLimit(config.RateLimitConfig{Enabled: true}, nil, quietLogger()),
	)
	e.GET("/v1/movies", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	rec := do(e, http.MethodGet, "/v1/movies", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "" {
		t.Fatalf("expected untouched response, got %d %v", rec.Code, rec.Header())
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(quietLogger()))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := do(e, http.MethodGet, "/healthz", nil)
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatal("expected a generated request id")
	}
	rec = do(e, http.MethodGet, "/healthz", func(r *http.Request) { r.Header.Set(echo.HeaderXRequestID, "abc") })
	if rec.Header().Get(echo.HeaderXRequestID) != "abc" {
		t.Fatalf("expected request id to be echoed, got %q", rec.Header().Get(echo.HeaderXRequestID))
	}
}
