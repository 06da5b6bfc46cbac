// Package token хранит токены сессии пользователя: короткоживущий access
// токен и долгоживущий refresh токен.
package token

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// defaultAccessTTL применяется, если срок действия не удалось
// извлечь из самого токена.
const defaultAccessTTL = 20 * time.Minute

// Store хранит пару токенов текущей сессии. Access токен считается
// отсутствующим после истечения срока действия; refresh токен живёт до
// выхода из системы. Оба токена очищаются вместе.
type Store struct {
	mu sync.Mutex

	accessToken   string
	accessExpires time.Time
	refreshToken  string

	accessTTL time.Duration
	now       func() time.Time
}

// NewStore создаёт пустое хранилище токенов. Неположительный ttl
// заменяется значением по умолчанию.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	return &Store{
		accessTTL: ttl,
		now:       time.Now,
	}
}

// SetTokens сохраняет новую пару токенов. Срок действия access токена
// берётся из его claim exp; если токен не разбирается как JWT,
// используется настроенный TTL.
func (s *Store) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = access
	s.refreshToken = refresh
	s.accessExpires = s.expiryOf(access)
}

// Access возвращает действующий access токен. Для истёкшего или
// отсутствующего токена возвращается ("", false).
func (s *Store) Access() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken == "" || !s.now().Before(s.accessExpires) {
		return "", false
	}
	return s.accessToken, true
}

// Refresh возвращает сохранённый refresh токен.
func (s *Store) Refresh() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshToken == "" {
		return "", false
	}
	return s.refreshToken, true
}

// Clear удаляет оба токена. Вызывается при выходе из системы.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = ""
	s.accessExpires = time.Time{}
	s.refreshToken = ""
}

func (s *Store) expiryOf(access string) time.Time {
	raw := strings.TrimPrefix(access, "Bearer ")

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err == nil {
		if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
			return exp.Time
		}
	}

	return s.now().Add(s.accessTTL)
}
