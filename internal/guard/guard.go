// Package guard decides whether a protected view may render for the current
// session. Real authorization is enforced server-side on every backend call;
// the guard only keeps restricted views from flashing and bounds how long a
// stalled profile fetch can hold a page in limbo.
package guard

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teukusulthan/ninetyn-client/internal/model"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectUnauthorized
)

// DefaultProfileWait bounds how long a check waits for the authoritative
// profile before giving up and redirecting.
const DefaultProfileWait = 1500 * time.Millisecond

// Sessions is the slice of the session store the guard reads.
type Sessions interface {
	Token() string
	User() *model.UserProfile
	Loading() bool
	WaitProfile(ctx context.Context) (*model.UserProfile, bool)
}

type Guard struct {
	session Sessions
	wait    time.Duration
}

func New(session Sessions, wait time.Duration) *Guard {
	if wait <= 0 {
		wait = DefaultProfileWait
	}
	return &Guard{session: session, wait: wait}
}

// Check evaluates one navigation. An empty required role only demands a
// credential. With a required role the token's role hint is consulted first
// so an obvious mismatch redirects without touching the network; otherwise
// the check waits, bounded, for the authoritative profile.
func (g *Guard) Check(ctx context.Context, required model.Role) Decision {
	token := g.session.Token()
	if token == "" {
		return RedirectLogin
	}
	if required == "" {
		return Allow
	}

	if hint, ok := RoleHint(token); ok && hint != required {
		return RedirectUnauthorized
	}

	user := g.session.User()
	loading := g.session.Loading()

	// A known profile with the wrong role loses immediately, even while a
	// refresh is still in flight.
	if user != nil && user.Role != required {
		return RedirectUnauthorized
	}

	if user == nil || loading {
		wctx, cancel := context.WithTimeout(ctx, g.wait)
		defer cancel()
		user, loading = g.session.WaitProfile(wctx)
		if user == nil || loading {
			return RedirectUnauthorized
		}
	}

	if user.Role != required {
		return RedirectUnauthorized
	}
	return Allow
}

// RoleHint extracts the role claim straight out of the token payload without
// verifying the signature. It is an untrusted rendering hint, never a
// security boundary: the backend re-checks authorization on every call. The
// second return is false when the claim is missing or the token is not a
// parsable JWT.
func RoleHint(token string) (model.Role, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}

	raw, ok := claims["role"].(string)
	if !ok {
		if nested, nok := claims["user"].(map[string]interface{}); nok {
			raw, ok = nested["role"].(string)
		}
	}
	if !ok || raw == "" {
		return "", false
	}
	return model.NormalizeRole(raw), true
}
