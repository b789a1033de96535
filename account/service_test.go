package account_test

import (
	"context"
	"testing"

	"github.com/kbukum/authgate/account"
	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/password"
	"github.com/kbukum/authgate/principal"
	"github.com/kbukum/authgate/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) (*account.Service, *principal.MemoryDirectory, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec(&token.Config{Secret: testSecret})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	dir := principal.NewMemoryDirectory()
	svc, err := account.NewService(dir, password.NewBcryptHasher(password.WithCost(4)), codec, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, dir, codec
}

func assertCode(t *testing.T, err error, want apperrors.ErrorCode) {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError with code %s, got %v", want, err)
	}
	if appErr.Code != want {
		t.Fatalf("code = %s, want %s", appErr.Code, want)
	}
}

func TestRegister(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Register(ctx, "Alice@Example.com", "s3cret-pass", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Key != "alice@example.com" {
		t.Errorf("key = %q, want normalized form", p.Key)
	}
	if len(p.Roles) != 1 || p.Roles[0] != principal.RoleUser {
		t.Errorf("roles = %v, want default [USER]", p.Roles)
	}
	if !p.Active {
		t.Error("new principal must be active")
	}
	if p.CredentialHash == "s3cret-pass" || p.CredentialHash == "" {
		t.Error("credential must be stored as a hash")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "ALICE@example.com", "other-secret", nil)
	assertCode(t, err, apperrors.ErrCodeDuplicateKey)
}

func TestRegister_WeakSecret(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Register(context.Background(), "alice@example.com", "short", nil)
	assertCode(t, err, apperrors.ErrCodeInvalidInput)
}

func TestLogin(t *testing.T) {
	svc, _, codec := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	pair, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("token type = %q", pair.TokenType)
	}
	if pair.ExpiresIn <= 0 {
		t.Errorf("expires_in = %d", pair.ExpiresIn)
	}

	claims, err := codec.ParseAndVerify(pair.AccessToken)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if _, err := codec.ParseAndVerify(pair.RefreshToken); err != nil {
		t.Fatalf("refresh token does not verify: %v", err)
	}
}

// Login failures are indistinguishable across wrong secret, unknown key,
// and deactivated account.
func TestLogin_GenericFailure(t *testing.T) {
	svc, dir, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongSecret := svc.Login(ctx, "alice@example.com", "wrong-secret")
	assertCode(t, wrongSecret, apperrors.ErrCodeCredentialMismatch)

	_, unknownKey := svc.Login(ctx, "ghost@example.com", "s3cret-pass")
	assertCode(t, unknownKey, apperrors.ErrCodeCredentialMismatch)

	if err := dir.SetActive(ctx, p.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	_, inactive := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	assertCode(t, inactive, apperrors.ErrCodeCredentialMismatch)

	if wrongSecret.Error() != unknownKey.Error() || unknownKey.Error() != inactive.Error() {
		t.Error("login failure messages must be identical across causes")
	}
}

func TestRefresh(t *testing.T) {
	svc, dir, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if fresh.AccessToken == "" || fresh.RefreshToken == "" {
		t.Fatal("refresh must issue a full pair")
	}

	// Deactivation takes effect on refresh even with a valid token.
	if err := dir.SetActive(ctx, p.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assertCode(t, err, apperrors.ErrCodeUnauthenticated)
}

func TestRefresh_RoleChangeTakesEffect(t *testing.T) {
	svc, dir, codec := newTestService(t)
	ctx := context.Background()

	p, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := dir.UpdateRoles(ctx, p.ID, []string{principal.RoleAdmin}); err != nil {
		t.Fatalf("UpdateRoles: %v", err)
	}

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := codec.ParseAndVerify(fresh.AccessToken)
	if err != nil {
		t.Fatalf("ParseAndVerify: %v", err)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != principal.RoleAdmin {
		t.Errorf("refreshed roles = %v, want [ADMIN]", claims.Roles)
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Refresh(context.Background(), "garbage")
	assertCode(t, err, apperrors.ErrCodeUnauthenticated)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.ChangePassword(ctx, "alice@example.com", "s3cret-pass", "brand-new-pass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(ctx, "alice@example.com", "s3cret-pass"); err == nil {
		t.Error("old secret must no longer verify")
	}
	if _, err := svc.Login(ctx, "alice@example.com", "brand-new-pass"); err != nil {
		t.Errorf("new secret must verify: %v", err)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := svc.ChangePassword(ctx, "alice@example.com", "wrong-secret", "brand-new-pass")
	assertCode(t, err, apperrors.ErrCodeCredentialMismatch)
}

func TestDeactivate(t *testing.T) {
	svc, dir, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Deactivate(ctx, p.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	got, err := dir.FindByKey(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByKey: %v", err)
	}
	if got.Active {
		t.Error("principal still active after Deactivate")
	}
}
