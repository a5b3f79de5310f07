package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-key-for-auth-tests"

func newAuthService(t *testing.T) (*service.AuthService, *domain.UserProfile) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := domain.UserProfile{
		ID:           "u1",
		Email:        "ana@example.com",
		FullName:     "Ana Souza",
		PasswordHash: string(hash),
	}
	profiles := &fakeProfileStore{users: []domain.UserProfile{user}}
	return service.NewAuthService(profiles, zap.NewNop(), testJWTSecret, 15*time.Minute), &user
}

func TestLoginSuccess(t *testing.T) {
	svc, user := newAuthService(t)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "ana@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.UserID != user.ID {
		t.Errorf("user_id = %s, want %s", resp.UserID, user.ID)
	}
	if resp.ExpiresIn != 900 {
		t.Errorf("expires_in = %d, want 900", resp.ExpiresIn)
	}

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.Sub != user.ID || claims.Email != user.Email {
		t.Errorf("claims = %+v, want sub=%s email=%s", claims, user.ID, user.Email)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "  ANA@example.com ",
		Password: "correct horse",
	}); err != nil {
		t.Fatalf("Login with uppercase email: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	var unauth *domain.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestLoginUnknownUserSameError(t *testing.T) {
	svc, _ := newAuthService(t)

	_, wrongPass := svc.Login(context.Background(), &domain.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	_, unknownUser := svc.Login(context.Background(), &domain.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	if wrongPass == nil || unknownUser == nil {
		t.Fatal("both logins should fail")
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPass, unknownUser)
	}
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.ValidateAccessToken("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := newAuthService(t)
	other := service.NewAuthService(&fakeProfileStore{}, zap.NewNop(), "different-secret", 15*time.Minute)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "ana@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := other.ValidateAccessToken(resp.AccessToken); err == nil {
		t.Error("token signed with another secret accepted")
	}
}
