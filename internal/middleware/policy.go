package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtime-service/internal/auth"
)

// Rule grants access to requests whose method and path match.  An empty
// Methods list matches every method and an empty Roles list admits any
// authenticated principal.
//
// In Pattern, "*" matches exactly one path segment and a trailing "**"
// matches the prefix itself and anything below it.
type Rule struct {
	Methods []string
	Pattern string
	Roles   []string
}

func (r Rule) matches(method, path string) bool {
	if len(r.Methods) > 0 && !slices.Contains(r.Methods, method) {
		return false
	}
	return matchPath(r.Pattern, path)
}

// DefaultRules is the access table of the API.  The first matching rule
// decides.
func DefaultRules() []Rule {
	signedIn := []string{auth.RoleUser, auth.RoleAdmin}
	admin := []string{auth.RoleAdmin}
	return []Rule{
		{Pattern: "/v1/movies/**", Roles: signedIn},
		{Methods: []string{http.MethodDelete}, Pattern: "/v1/reviews/*", Roles: admin},
		{Pattern: "/v1/reviews/**", Roles: signedIn},
		{Methods: []string{http.MethodGet}, Pattern: "/v1/showtimes/**", Roles: signedIn},
		{Methods: []string{http.MethodPost}, Pattern: "/v1/showtimes/**", Roles: admin},
		{Methods: []string{http.MethodPut, http.MethodPatch, http.MethodDelete}, Pattern: "/v1/showtimes/*", Roles: admin},
		{Pattern: "/v1/**"},
	}
}

// Policy enforces rules on every request under /v1.  Anonymous callers get
// 401 and callers without a required role get 403.  Paths outside /v1 are
// public.
func Policy(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if !matchPath("/v1/**", r.URL.Path) {
				return next(c)
			}
			p, ok := PrincipalFrom(c)
			if !ok {
				return unauthorized(c)
			}
			for _, rule := range rules {
				if !rule.matches(r.Method, r.URL.Path) {
					continue
				}
				if len(rule.Roles) > 0 && !p.HasAnyRole(rule.Roles...) {
					return ErrForbidden
				}
				return next(c)
			}
			// no rule matched: deny
			return ErrForbidden
		}
	}
}

func matchPath(pattern, path string) bool {
	want, got := segments(pattern), segments(path)
	for i, seg := range want {
		if seg == "**" {
			return true
		}
		if i >= len(got) || (seg != "*" && seg != got[i]) {
			return false
		}
	}
	return len(want) == len(got)
}

func segments(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}
