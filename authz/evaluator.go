// Package authz evaluates whether a request's authentication context
// satisfies the authority requirement declared by an operation.
//
// It is the single point that turns "no context" or "insufficient authority"
// into a user-visible rejection; everything upstream of it (the token codec,
// the authentication pipeline) absorbs failures silently. Evaluation is pure:
// it never mutates the context or touches storage.
package authz

import (
	"github.com/kbukum/authgate/authctx"
	"github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/principal"
)

type requirementKind int

const (
	kindPublic requirementKind = iota
	kindAuthenticated
	kindAuthority
)

// Requirement is an operation's declared access policy. Three shapes exist:
// public (no authority required), any authenticated principal, and a
// specific authority.
type Requirement struct {
	kind      requirementKind
	authority string
}

// Public declares an operation open to unauthenticated requests.
func Public() Requirement {
	return Requirement{kind: kindPublic}
}

// Authenticated declares an operation open to any authenticated principal,
// regardless of role.
func Authenticated() Requirement {
	return Requirement{kind: kindAuthenticated}
}

// Authority declares an operation gated on a specific authority tag.
func Authority(tag string) Requirement {
	return Requirement{kind: kindAuthority, authority: tag}
}

// String returns a short description for diagnostics.
func (r Requirement) String() string {
	switch r.kind {
	case kindPublic:
		return "public"
	case kindAuthenticated:
		return "authenticated"
	default:
		return "authority:" + r.authority
	}
}

// DefaultGrants maps each role to the authority patterns it satisfies.
// ADMIN implicitly satisfies every requirement, including USER-level ones.
var DefaultGrants = map[string][]string{
	principal.RoleAdmin: {"*"},
	principal.RoleUser:  {principal.RoleUser},
}

// Evaluator checks authentication contexts against requirements using a
// role-to-patterns grant table.
type Evaluator struct {
	grants map[string][]string
}

// NewEvaluator creates an evaluator. A nil grant table selects DefaultGrants.
func NewEvaluator(grants map[string][]string) *Evaluator {
	if grants == nil {
		grants = DefaultGrants
	}
	return &Evaluator{grants: grants}
}

// Authorize checks the context (nil when no identity was validated) against
// the requirement. It returns nil when allowed, an Unauthenticated error when
// identity is required but absent, and a Forbidden error when the installed
// authorities do not satisfy the requirement. The returned errors carry
// generic messages only.
func (e *Evaluator) Authorize(a *authctx.Auth, req Requirement) error {
	if req.kind == kindPublic {
		return nil
	}
	if a == nil {
		return errors.Unauthenticated()
	}
	if req.kind == kindAuthenticated {
		return nil
	}
	for _, authority := range a.Authorities {
		patterns, ok := e.grants[authority]
		if !ok {
			// Unknown authorities satisfy themselves only.
			patterns = []string{authority}
		}
		if MatchAny(patterns, req.authority) {
			return nil
		}
	}
	return errors.Forbidden()
}
