package state

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-client/internal/model"
)

const (
	fallbackLogin          = "Login failed"
	fallbackRegister       = "Registration failed"
	fallbackLogout         = "Logout failed"
	fallbackCheckAuth      = "User not authenticated"
	fallbackUpdateProfile  = "Update user failed"
	fallbackForgotPassword = "Forgot password failed"
	fallbackResetPassword  = "Reset password failed"
)

// Каждая операция сессии ведёт собственные поля pending и error, поэтому
// отказ одной операции не трогает состояние остальных. Параллельные
// запуски одной и той же операции не защищаются: побеждает последняя
// завершившаяся.
type authState struct {
	user          *model.User
	isAuthChecked bool

	loginRequest bool
	loginErr     string

	registerRequest bool
	registerErr     string

	logoutRequest bool
	logoutErr     string

	checkAuthRequest bool
	checkAuthErr     string

	updateRequest bool
	updateErr     string

	forgotRequest bool
	forgotSuccess bool
	forgotErr     string

	resetRequest bool
	resetSuccess bool
	resetErr     string
}

// Login выполняет вход. При успехе пара токенов сохраняется в хранилище
// до применения перехода fulfilled, затем сохраняется пользователь и
// сессия считается разрешённой. При отказе токены не трогаются.
func (s *Store) Login(ctx context.Context, creds model.Credentials) error {
	s.mu.Lock()
	s.auth.loginRequest = true
	s.auth.loginErr = ""
	s.mu.Unlock()

	res, err := s.api.Login(ctx, creds)
	if err == nil {
		s.tokens.SetTokens(res.AccessToken, res.RefreshToken)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.loginRequest = false
	if err != nil {
		s.auth.loginErr = errMessage(err, fallbackLogin)
		s.logger.Error("login error", zap.Error(err))
		return err
	}

	user := res.User
	s.auth.user = &user
	s.auth.isAuthChecked = true
	return nil
}

// Register регистрирует пользователя. Семантика токенов и сессии та же,
// что у Login.
func (s *Store) Register(ctx context.Context, data model.RegisterData) error {
	s.mu.Lock()
	s.auth.registerRequest = true
	s.auth.registerErr = ""
	s.mu.Unlock()

	res, err := s.api.Register(ctx, data)
	if err == nil {
		s.tokens.SetTokens(res.AccessToken, res.RefreshToken)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.registerRequest = false
	if err != nil {
		s.auth.registerErr = errMessage(err, fallbackRegister)
		s.logger.Error("register error", zap.Error(err))
		return err
	}

	user := res.User
	s.auth.user = &user
	s.auth.isAuthChecked = true
	return nil
}

// Logout завершает сессию. Токены и пользователь очищаются только после
// подтверждения сервером; при отказе клиент остаётся залогиненным,
// меняются лишь поля самой операции.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.auth.logoutRequest = true
	s.auth.logoutErr = ""
	s.mu.Unlock()

	err := s.api.Logout(ctx)
	if err == nil {
		s.tokens.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.logoutRequest = false
	if err != nil {
		s.auth.logoutErr = errMessage(err, fallbackLogout)
		s.logger.Error("logout error", zap.Error(err))
		return err
	}

	s.auth.user = nil
	return nil
}

// CheckAuth восстанавливает сессию по сохранённому токену, обычно при
// старте приложения. isAuthChecked становится true после первой попытки
// независимо от исхода: флаг означает "личность выяснялась", а не
// "личность найдена".
func (s *Store) CheckAuth(ctx context.Context) error {
	s.mu.Lock()
	s.auth.checkAuthRequest = true
	s.auth.checkAuthErr = ""
	s.mu.Unlock()

	user, err := s.api.GetUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.checkAuthRequest = false
	s.auth.isAuthChecked = true
	if err != nil {
		s.auth.user = nil
		s.auth.checkAuthErr = errMessage(err, fallbackCheckAuth)
		// отсутствие сессии при старте — штатный случай, не Error
		s.logger.Info("check auth failed", zap.Error(err))
		return err
	}

	s.auth.user = user
	return nil
}

// UpdateProfile частично обновляет профиль. При успехе пользователь
// заменяется серверной версией записи, при отказе остаётся прежним.
func (s *Store) UpdateProfile(ctx context.Context, update model.ProfileUpdate) error {
	s.mu.Lock()
	s.auth.updateRequest = true
	s.auth.updateErr = ""
	s.mu.Unlock()

	user, err := s.api.UpdateUser(ctx, update)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.updateRequest = false
	if err != nil {
		s.auth.updateErr = errMessage(err, fallbackUpdateProfile)
		s.logger.Error("update profile error", zap.Error(err))
		return err
	}

	s.auth.user = user
	return nil
}

// ForgotPassword запрашивает восстановление пароля. Успех фиксируется
// флагом для перехода UI к шагу подтверждения.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	s.mu.Lock()
	s.auth.forgotRequest = true
	s.auth.forgotErr = ""
	s.mu.Unlock()

	err := s.api.ForgotPassword(ctx, email)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.forgotRequest = false
	if err != nil {
		s.auth.forgotErr = errMessage(err, fallbackForgotPassword)
		s.logger.Error("forgot password error", zap.Error(err))
		return err
	}

	s.auth.forgotSuccess = true
	return nil
}

// ResetPassword устанавливает новый пароль по коду из письма.
func (s *Store) ResetPassword(ctx context.Context, password, resetToken string) error {
	s.mu.Lock()
	s.auth.resetRequest = true
	s.auth.resetErr = ""
	s.mu.Unlock()

	err := s.api.ResetPassword(ctx, password, resetToken)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.resetRequest = false
	if err != nil {
		s.auth.resetErr = errMessage(err, fallbackResetPassword)
		s.logger.Error("reset password error", zap.Error(err))
		return err
	}

	s.auth.resetSuccess = true
	return nil
}

// SetAuthChecked выставляет флаг разрешения сессии вручную, например
// когда сохранённых токенов нет и проверять нечего.
func (s *Store) SetAuthChecked(checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth.isAuthChecked = checked
}

// ClearLoginError сбрасывает ошибку входа.
func (s *Store) ClearLoginError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth.loginErr = ""
}

// ClearRegisterError сбрасывает ошибку регистрации.
func (s *Store) ClearRegisterError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth.registerErr = ""
}

// ClearForgotPassword сбрасывает результат восстановления пароля.
func (s *Store) ClearForgotPassword() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth.forgotErr = ""
	s.auth.forgotSuccess = false
}

// ClearResetPassword сбрасывает результат смены пароля.
func (s *Store) ClearResetPassword() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth.resetErr = ""
	s.auth.resetSuccess = false
}

// User возвращает текущего пользователя сессии.
func (s *Store) User() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth.user == nil {
		return model.User{}, false
	}
	return *s.auth.user, true
}

// IsAuthChecked сообщает, была ли завершена первая попытка разрешить
// сессию. Маршрутные охранники ждут этот флаг перед редиректом.
func (s *Store) IsAuthChecked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.isAuthChecked
}

// LoginRequest сообщает, выполняется ли вход.
func (s *Store) LoginRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.loginRequest
}

// LoginError возвращает сообщение последнего отказа входа.
func (s *Store) LoginError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.loginErr
}

// RegisterRequest сообщает, выполняется ли регистрация.
func (s *Store) RegisterRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.registerRequest
}

// RegisterError возвращает сообщение последнего отказа регистрации.
func (s *Store) RegisterError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.registerErr
}

// LogoutRequest сообщает, выполняется ли выход.
func (s *Store) LogoutRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.logoutRequest
}

// LogoutError возвращает сообщение последнего отказа выхода.
func (s *Store) LogoutError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.logoutErr
}

// CheckAuthError возвращает сообщение последнего отказа проверки сессии.
func (s *Store) CheckAuthError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.checkAuthErr
}

// UpdateProfileRequest сообщает, выполняется ли обновление профиля.
func (s *Store) UpdateProfileRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.updateRequest
}

// UpdateProfileError возвращает сообщение последнего отказа обновления.
func (s *Store) UpdateProfileError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.updateErr
}

// ForgotPasswordRequest сообщает, выполняется ли запрос восстановления.
func (s *Store) ForgotPasswordRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.forgotRequest
}

// ForgotPasswordSuccess сообщает, подтвердил ли сервер восстановление.
func (s *Store) ForgotPasswordSuccess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.forgotSuccess
}

// ForgotPasswordError возвращает сообщение последнего отказа восстановления.
func (s *Store) ForgotPasswordError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.forgotErr
}

// ResetPasswordRequest сообщает, выполняется ли смена пароля.
func (s *Store) ResetPasswordRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.resetRequest
}

// ResetPasswordSuccess сообщает, подтвердил ли сервер смену пароля.
func (s *Store) ResetPasswordSuccess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.resetSuccess
}

// ResetPasswordError возвращает сообщение последнего отказа смены пароля.
func (s *Store) ResetPasswordError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.resetErr
}
