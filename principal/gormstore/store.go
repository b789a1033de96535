// Package gormstore provides a GORM-backed principal Directory.
//
// The default driver is SQLite, which keeps single-node deployments
// dependency-free; any gorm.Dialector can be supplied instead. Mutations run
// as single UPDATE statements inside the database's write transaction, so
// concurrent readers never observe a half-updated record.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/principal"
)

// record is the storage shape of a principal. Roles are stored as a
// comma-joined string; the set is small and never queried by element.
type record struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	Key            string `gorm:"uniqueIndex;not null"`
	CredentialHash string `gorm:"not null"`
	Roles          string `gorm:"not null"`
	Active         bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (record) TableName() string { return "principals" }

// Store implements principal.Directory on a GORM database.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open opens (or creates) a SQLite-backed store at the given DSN and runs
// auto-migration.
func Open(dsn string, log *logger.Logger) (*Store, error) {
	return OpenDialector(sqlite.Open(dsn), log)
}

// OpenDialector opens a store on any GORM dialector and runs auto-migration.
func OpenDialector(dialector gorm.Dialector, log *logger.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: open: %w", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}
	return &Store{db: db, log: log.WithComponent("gormstore")}, nil
}

func (s *Store) FindByKey(ctx context.Context, key string) (*principal.Principal, error) {
	var rec record
	err := s.db.WithContext(ctx).
		Where("key = ?", principal.NormalizeKey(key)).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, principal.ErrNotFound
		}
		return nil, fmt.Errorf("gormstore: find by key: %w", err)
	}
	return fromRecord(&rec)
}

func (s *Store) ExistsByKey(ctx context.Context, key string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&record{}).
		Where("key = ?", principal.NormalizeKey(key)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gormstore: exists by key: %w", err)
	}
	return count > 0, nil
}

func (s *Store) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&record{}).
		Where("id = ?", id.String()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gormstore: exists by id: %w", err)
	}
	return count > 0, nil
}

func (s *Store) Create(ctx context.Context, p *principal.Principal) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Key = principal.NormalizeKey(p.Key)

	rec := toRecord(p)
	err := s.db.WithContext(ctx).Create(rec).Error
	if err != nil {
		if isUniqueViolation(err) {
			return principal.ErrDuplicateKey
		}
		return fmt.Errorf("gormstore: create: %w", err)
	}
	p.CreatedAt = rec.CreatedAt
	p.UpdatedAt = rec.UpdatedAt
	return nil
}

func (s *Store) UpdateCredential(ctx context.Context, id uuid.UUID, credentialHash string) error {
	return s.updateColumns(ctx, id, map[string]any{"credential_hash": credentialHash})
}

func (s *Store) UpdateRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	if len(roles) == 0 {
		return fmt.Errorf("gormstore: roles must be non-empty")
	}
	return s.updateColumns(ctx, id, map[string]any{"roles": strings.Join(roles, ",")})
}

func (s *Store) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.updateColumns(ctx, id, map[string]any{"active": active})
}

func (s *Store) List(ctx context.Context) ([]*principal.Principal, error) {
	var recs []record
	err := s.db.WithContext(ctx).Order("created_at").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("gormstore: list: %w", err)
	}
	out := make([]*principal.Principal, 0, len(recs))
	for i := range recs {
		p, err := fromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) updateColumns(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	cols["updated_at"] = time.Now()
	res := s.db.WithContext(ctx).Model(&record{}).
		Where("id = ?", id.String()).
		Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("gormstore: update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return principal.ErrNotFound
	}
	return nil
}

func toRecord(p *principal.Principal) *record {
	return &record{
		ID:             p.ID.String(),
		Key:            p.Key,
		CredentialHash: p.CredentialHash,
		Roles:          strings.Join(p.Roles, ","),
		Active:         p.Active,
	}
}

func fromRecord(rec *record) (*principal.Principal, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("gormstore: corrupt id %q: %w", rec.ID, err)
	}
	return &principal.Principal{
		ID:             id,
		Key:            rec.Key,
		CredentialHash: rec.CredentialHash,
		Roles:          strings.Split(rec.Roles, ","),
		Active:         rec.Active,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
