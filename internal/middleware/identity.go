package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtime-service/internal/auth"
)

// principalKey is the echo context key holding the authenticated principal.
const principalKey = "principal"

// setPrincipal stores p on the echo context and on the request context so
// that services see it through auth.FromContext.
func setPrincipal(c echo.Context, p auth.Principal) {
	c.Set(principalKey, p)
	r := c.Request()
	c.SetRequest(r.WithContext(auth.WithPrincipal(r.Context(), p)))
}

// PrincipalFrom returns the principal attached by Authenticate.
func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}

// principalName extracts a caller name for rate limit keys.  It returns
// "anon" when no one is authenticated.
func principalName(c echo.Context) string {
	if p, ok := PrincipalFrom(c); ok && p.Name != "" {
		return p.Name
	}
	return "anon"
}
