// Package principal defines the authenticatable identity record and the
// Directory abstraction that resolves unique keys to principals.
//
// Keys are matched case-insensitively: NormalizeKey is applied once at write
// time and again on every lookup, so the stored form is the normalized form.
package principal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known role tags.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var (
	// ErrNotFound is returned when no principal exists for the key or id.
	ErrNotFound = errors.New("principal: not found")

	// ErrDuplicateKey is returned when creating a principal whose key is taken.
	ErrDuplicateKey = errors.New("principal: duplicate key")
)

// Principal is an authenticatable identity. CredentialHash is a salted
// one-way hash of the current secret; the plaintext never appears here.
type Principal struct {
	ID             uuid.UUID `json:"id"`
	Key            string    `json:"key"`
	CredentialHash string    `json:"-"`
	Roles          []string  `json:"roles"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the principal.
func (p *Principal) Clone() *Principal {
	cp := *p
	cp.Roles = append([]string(nil), p.Roles...)
	return &cp
}

// HasRole reports whether the principal carries the given role tag.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeKey returns the canonical form of an authentication key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Directory resolves identities and mutates principal records. Reads are
// side-effect-free; writes are atomic with respect to concurrent reads, so a
// reader never observes a half-updated principal. FindByKey is the only
// operation on the request path and must honor context cancellation.
type Directory interface {
	// FindByKey returns the principal for the normalized key, or ErrNotFound.
	FindByKey(ctx context.Context, key string) (*Principal, error)

	// ExistsByKey reports whether a principal with the key exists.
	ExistsByKey(ctx context.Context, key string) (bool, error)

	// ExistsByID reports whether a principal with the id exists.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Create stores a new principal. Returns ErrDuplicateKey if taken.
	Create(ctx context.Context, p *Principal) error

	// UpdateCredential atomically replaces the credential hash.
	UpdateCredential(ctx context.Context, id uuid.UUID, credentialHash string) error

	// UpdateRoles atomically replaces the role set. Roles must be non-empty.
	UpdateRoles(ctx context.Context, id uuid.UUID, roles []string) error

	// SetActive toggles the active flag. Deactivation is preferred over
	// deletion; a deactivated principal fails authentication even with a
	// still-valid token.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// List returns all principals ordered by creation time.
	List(ctx context.Context) ([]*Principal, error)
}
