// Package account implements the credential flows: registration, login,
// token refresh, and password change.
//
// Login failures are reported with a single generic error whether the key
// was unknown, the principal inactive, or the secret wrong; the actual
// reason is logged at debug level only.
package account

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/password"
	"github.com/kbukum/authgate/principal"
	"github.com/kbukum/authgate/token"
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Service wires the principal directory, credential hasher, and token codec.
type Service struct {
	dir    principal.Directory
	hasher password.Hasher
	codec  *token.Codec
	log    *logger.Logger

	// dummyHash makes lookups of unknown keys cost a full hash
	// comparison, the same as a wrong secret.
	dummyHash string
}

// NewService creates the account service.
func NewService(dir principal.Directory, hasher password.Hasher, codec *token.Codec, log *logger.Logger) (*Service, error) {
	dummy, err := hasher.Hash("authgate-unknown-principal")
	if err != nil {
		return nil, err
	}
	return &Service{
		dir:       dir,
		hasher:    hasher,
		codec:     codec,
		log:       log.WithComponent("account"),
		dummyHash: dummy,
	}, nil
}

// Register creates a new principal with the given key, secret, and roles.
// An empty role list defaults to USER. The key is normalized before storage.
func (s *Service) Register(ctx context.Context, key, secret string, roles []string) (*principal.Principal, error) {
	key = principal.NormalizeKey(key)
	if key == "" {
		return nil, apperrors.InvalidInput("key must not be empty")
	}
	if len(roles) == 0 {
		roles = []string{principal.RoleUser}
	}

	exists, err := s.dir.ExistsByKey(ctx, key)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	if exists {
		return nil, apperrors.DuplicateKey()
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	p := &principal.Principal{
		Key:            key,
		CredentialHash: hash,
		Roles:          roles,
		Active:         true,
	}
	if err := s.dir.Create(ctx, p); err != nil {
		if errors.Is(err, principal.ErrDuplicateKey) {
			return nil, apperrors.DuplicateKey()
		}
		return nil, apperrors.StorageError(err)
	}

	s.log.Info("principal registered", logger.Fields(
		logger.FieldPrincipalID, p.ID.String(),
		logger.FieldSubject, p.Key,
	))
	return p, nil
}

// Login verifies the secret for the key and issues a token pair.
func (s *Service) Login(ctx context.Context, key, secret string) (*TokenPair, error) {
	p, err := s.dir.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			_ = s.hasher.Verify(secret, s.dummyHash)
			s.log.Debug("login rejected", logger.Fields(logger.FieldReason, "unknown key"))
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.StorageError(err)
	}

	if err := s.hasher.Verify(secret, p.CredentialHash); err != nil {
		s.log.Debug("login rejected", logger.Fields(
			logger.FieldReason, "credential mismatch",
			logger.FieldPrincipalID, p.ID.String(),
		))
		return nil, apperrors.InvalidCredentials()
	}

	if !p.Active {
		s.log.Debug("login rejected", logger.Fields(
			logger.FieldReason, "principal inactive",
			logger.FieldPrincipalID, p.ID.String(),
		))
		return nil, apperrors.InvalidCredentials()
	}

	return s.issuePair(p)
}

// Refresh validates a refresh token, re-resolves the principal so role and
// activation changes take effect, and issues a fresh token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.ParseAndVerify(refreshToken)
	if err != nil {
		s.log.Debug("refresh rejected", logger.Fields(logger.FieldReason, token.FailureClass(err)))
		return nil, apperrors.Unauthenticated()
	}

	p, err := s.dir.FindByKey(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			return nil, apperrors.Unauthenticated()
		}
		return nil, apperrors.StorageError(err)
	}
	if !p.Active {
		return nil, apperrors.Unauthenticated()
	}

	return s.issuePair(p)
}

// ChangePassword verifies the current secret for the key and atomically
// replaces the stored credential hash.
func (s *Service) ChangePassword(ctx context.Context, key, current, next string) error {
	p, err := s.dir.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			return apperrors.InvalidCredentials()
		}
		return apperrors.StorageError(err)
	}

	if err := s.hasher.Verify(current, p.CredentialHash); err != nil {
		return apperrors.InvalidCredentials()
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if err := s.dir.UpdateCredential(ctx, p.ID, hash); err != nil {
		return apperrors.StorageError(err)
	}

	s.log.Info("credential updated", logger.Fields(logger.FieldPrincipalID, p.ID.String()))
	return nil
}

// Deactivate soft-deactivates a principal. Outstanding tokens stop resolving
// on the next request; the record itself is retained.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.dir.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			return apperrors.NotFound("principal")
		}
		return apperrors.StorageError(err)
	}
	s.log.Info("principal deactivated", logger.Fields(logger.FieldPrincipalID, id.String()))
	return nil
}

// List returns all principals.
func (s *Service) List(ctx context.Context) ([]*principal.Principal, error) {
	out, err := s.dir.List(ctx)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return out, nil
}

func (s *Service) issuePair(p *principal.Principal) (*TokenPair, error) {
	access, err := s.codec.IssueAccess(p.Key, p.ID.String(), p.Roles)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.codec.IssueRefresh(p.Key, p.ID.String(), p.Roles)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.codec.AccessTokenTTL().Seconds()),
	}, nil
}
