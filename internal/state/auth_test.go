package state

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mmeshcher/stellar-client/internal/api"
	"github.com/mmeshcher/stellar-client/internal/model"
)

func authResult() *api.AuthResult {
	return &api.AuthResult{
		User:         model.User{Email: "user@example.com", Name: "User"},
		AccessToken:  "Bearer access-token",
		RefreshToken: "refresh-token",
	}
}

func TestLogin_Success(t *testing.T) {
	apiStub := &stubAPI{loginResult: authResult()}
	store, tokens := newTestStore(apiStub)

	err := store.Login(context.Background(), model.Credentials{Email: "user@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	user, ok := store.User()
	if !ok || user.Email != "user@example.com" {
		t.Fatalf("user = (%+v, %v)", user, ok)
	}
	if !store.IsAuthChecked() {
		t.Fatalf("login implies identity is resolved")
	}
	if store.LoginRequest() {
		t.Fatalf("request flag must be cleared")
	}

	if len(tokens.setAccess) != 1 || tokens.setAccess[0] != "Bearer access-token" {
		t.Fatalf("access token side effect = %v, want exactly one call with server value", tokens.setAccess)
	}
	if len(tokens.setRefresh) != 1 || tokens.setRefresh[0] != "refresh-token" {
		t.Fatalf("refresh token side effect = %v", tokens.setRefresh)
	}
}

func TestLogin_FailureLeavesTokensUntouched(t *testing.T) {
	apiStub := &stubAPI{loginErr: &api.Error{}}
	store, tokens := newTestStore(apiStub)

	if err := store.Login(context.Background(), model.Credentials{}); err == nil {
		t.Fatalf("expected error")
	}

	if store.LoginError() != "Login failed" {
		t.Fatalf("error = %q, want fallback", store.LoginError())
	}
	if _, ok := store.User(); ok {
		t.Fatalf("user must stay absent after failed login")
	}
	if len(tokens.setAccess) != 0 || tokens.clearCount != 0 {
		t.Fatalf("failed login must not touch stored tokens")
	}
}

func TestRegister_Success(t *testing.T) {
	apiStub := &stubAPI{registerResult: authResult()}
	store, tokens := newTestStore(apiStub)

	data := model.RegisterData{Email: "user@example.com", Password: "secret", Name: "User"}
	if err := store.Register(context.Background(), data); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, ok := store.User(); !ok {
		t.Fatalf("user must be stored after register")
	}
	if !store.IsAuthChecked() {
		t.Fatalf("register implies identity is resolved")
	}
	if len(tokens.setRefresh) != 1 {
		t.Fatalf("register must persist tokens once")
	}
}

func TestRegister_FallbackMessage(t *testing.T) {
	apiStub := &stubAPI{registerErr: &api.Error{}}
	store, _ := newTestStore(apiStub)

	_ = store.Register(context.Background(), model.RegisterData{})
	if store.RegisterError() != "Registration failed" {
		t.Fatalf("error = %q, want fallback", store.RegisterError())
	}
}

func TestLogout_Success(t *testing.T) {
	apiStub := &stubAPI{loginResult: authResult()}
	store, tokens := newTestStore(apiStub)
	_ = store.Login(context.Background(), model.Credentials{})

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	if _, ok := store.User(); ok {
		t.Fatalf("user must be cleared after logout")
	}
	if tokens.clearCount != 1 {
		t.Fatalf("both tokens must be cleared exactly once, got %d", tokens.clearCount)
	}
}

func TestLogout_FailureKeepsSession(t *testing.T) {
	apiStub := &stubAPI{loginResult: authResult()}
	store, tokens := newTestStore(apiStub)
	_ = store.Login(context.Background(), model.Credentials{})

	apiStub.logoutErr = &api.Error{}
	if err := store.Logout(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	if _, ok := store.User(); !ok {
		t.Fatalf("user must remain logged in after failed server logout")
	}
	if tokens.clearCount != 0 {
		t.Fatalf("tokens must not be cleared optimistically")
	}
	if store.LogoutError() != "Logout failed" {
		t.Fatalf("error = %q, want fallback", store.LogoutError())
	}
}

func TestCheckAuth_Success(t *testing.T) {
	apiStub := &stubAPI{user: &model.User{Email: "user@example.com"}}
	store, _ := newTestStore(apiStub)

	if err := store.CheckAuth(context.Background()); err != nil {
		t.Fatalf("CheckAuth error: %v", err)
	}

	if _, ok := store.User(); !ok {
		t.Fatalf("resolved user must be stored")
	}
	if !store.IsAuthChecked() {
		t.Fatalf("isAuthChecked must be true after successful resolution")
	}
}

func TestCheckAuth_FailureStillMarksChecked(t *testing.T) {
	apiStub := &stubAPI{getUserErr: &api.Error{Message: "You should be authorised"}}

	core, logs := observer.New(zapcore.InfoLevel)
	store := NewStore(apiStub, &stubTokens{}, zap.New(core))

	if err := store.CheckAuth(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	if _, ok := store.User(); ok {
		t.Fatalf("user must be absent after failed resolution")
	}
	if !store.IsAuthChecked() {
		t.Fatalf("isAuthChecked must become true even on failure")
	}
	if store.CheckAuthError() != "You should be authorised" {
		t.Fatalf("error = %q", store.CheckAuthError())
	}

	entries := logs.FilterMessage("check auth failed").All()
	if len(entries) != 1 {
		t.Fatalf("check auth failure must be logged once, got %d entries", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("missing session is expected at startup and must log at Info, got %s", entries[0].Level)
	}
}

func TestUpdateProfile(t *testing.T) {
	apiStub := &stubAPI{
		loginResult: authResult(),
		updatedUser: &model.User{Email: "new@example.com", Name: "New Name"},
	}
	store, _ := newTestStore(apiStub)
	_ = store.Login(context.Background(), model.Credentials{})

	if err := store.UpdateProfile(context.Background(), model.ProfileUpdate{Name: "New Name"}); err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}

	user, _ := store.User()
	if user.Email != "new@example.com" {
		t.Fatalf("user must be replaced with the server record, got %+v", user)
	}

	// при отказе пользователь остаётся прежним
	apiStub.updateErr = &api.Error{}
	_ = store.UpdateProfile(context.Background(), model.ProfileUpdate{Name: "Other"})

	user, _ = store.User()
	if user.Email != "new@example.com" {
		t.Fatalf("failed update must leave user untouched, got %+v", user)
	}
	if store.UpdateProfileError() != "Update user failed" {
		t.Fatalf("error = %q, want fallback", store.UpdateProfileError())
	}
}

func TestForgotPassword(t *testing.T) {
	apiStub := &stubAPI{}
	store, _ := newTestStore(apiStub)

	if err := store.ForgotPassword(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("ForgotPassword error: %v", err)
	}
	if !store.ForgotPasswordSuccess() {
		t.Fatalf("success flag must be set")
	}

	store.ClearForgotPassword()
	if store.ForgotPasswordSuccess() {
		t.Fatalf("success flag must be cleared")
	}

	apiStub.forgotErr = &api.Error{}
	_ = store.ForgotPassword(context.Background(), "user@example.com")
	if store.ForgotPasswordSuccess() {
		t.Fatalf("success flag must stay false on failure")
	}
	if store.ForgotPasswordError() != "Forgot password failed" {
		t.Fatalf("error = %q, want fallback", store.ForgotPasswordError())
	}
}

func TestResetPassword(t *testing.T) {
	apiStub := &stubAPI{}
	store, _ := newTestStore(apiStub)

	if err := store.ResetPassword(context.Background(), "new-pass", "reset-code"); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}
	if !store.ResetPasswordSuccess() {
		t.Fatalf("success flag must be set")
	}

	apiStub.resetErr = &api.Error{}
	store.ClearResetPassword()
	_ = store.ResetPassword(context.Background(), "new-pass", "reset-code")
	if store.ResetPasswordSuccess() {
		t.Fatalf("success flag must stay false on failure")
	}
	if store.ResetPasswordError() != "Reset password failed" {
		t.Fatalf("error = %q, want fallback", store.ResetPasswordError())
	}
}

func TestOperationErrorsAreIndependent(t *testing.T) {
	apiStub := &stubAPI{
		loginErr:    &api.Error{Message: "bad credentials"},
		registerErr: &api.Error{Message: "email taken"},
	}
	store, _ := newTestStore(apiStub)

	_ = store.Login(context.Background(), model.Credentials{})
	_ = store.Register(context.Background(), model.RegisterData{})

	if store.LoginError() != "bad credentials" {
		t.Fatalf("login error = %q", store.LoginError())
	}
	if store.RegisterError() != "email taken" {
		t.Fatalf("register error = %q", store.RegisterError())
	}

	store.ClearLoginError()
	if store.LoginError() != "" {
		t.Fatalf("login error must be cleared")
	}
	if store.RegisterError() != "email taken" {
		t.Fatalf("clearing one error must not touch another")
	}

	store.ClearRegisterError()
	if store.RegisterError() != "" {
		t.Fatalf("register error must be cleared")
	}
}

func TestSetAuthChecked(t *testing.T) {
	store, _ := newTestStore(&stubAPI{})

	if store.IsAuthChecked() {
		t.Fatalf("flag must start false")
	}
	store.SetAuthChecked(true)
	if !store.IsAuthChecked() {
		t.Fatalf("flag must be settable manually")
	}
}
