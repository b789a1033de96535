package principal

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryDirectory is an in-memory Directory guarded by a RWMutex.
// Reads return copies, so callers never share mutable state with the store.
// Intended for tests and single-process deployments.
type MemoryDirectory struct {
	mu    sync.RWMutex
	byKey map[string]*Principal
	byID  map[uuid.UUID]*Principal
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byKey: make(map[string]*Principal),
		byID:  make(map[uuid.UUID]*Principal),
	}
}

func (d *MemoryDirectory) FindByKey(ctx context.Context, key string) (*Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.byKey[NormalizeKey(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (d *MemoryDirectory) ExistsByKey(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.byKey[NormalizeKey(key)]
	return ok, nil
}

func (d *MemoryDirectory) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.byID[id]
	return ok, nil
}

func (d *MemoryDirectory) Create(ctx context.Context, p *Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	key := NormalizeKey(p.Key)
	if _, ok := d.byKey[key]; ok {
		return ErrDuplicateKey
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.Key = key
	p.CreatedAt = now
	p.UpdatedAt = now

	stored := p.Clone()
	d.byKey[key] = stored
	d.byID[stored.ID] = stored
	return nil
}

func (d *MemoryDirectory) UpdateCredential(ctx context.Context, id uuid.UUID, credentialHash string) error {
	return d.update(ctx, id, func(p *Principal) {
		p.CredentialHash = credentialHash
	})
}

func (d *MemoryDirectory) UpdateRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	if len(roles) == 0 {
		return fmt.Errorf("principal: roles must be non-empty")
	}
	return d.update(ctx, id, func(p *Principal) {
		p.Roles = append([]string(nil), roles...)
	})
}

func (d *MemoryDirectory) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return d.update(ctx, id, func(p *Principal) {
		p.Active = active
	})
}

func (d *MemoryDirectory) List(ctx context.Context) ([]*Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Principal, 0, len(d.byID))
	for _, p := range d.byID {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (d *MemoryDirectory) update(ctx context.Context, id uuid.UUID, fn func(*Principal)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.byID[id]
	if !ok {
		return ErrNotFound
	}
	fn(p)
	p.UpdatedAt = time.Now()
	return nil
}
