// Package state реализует слой состояния клиента Stellar Burgers:
// каталог ингредиентов, конструктор бургера, заказы, ленту и сессию
// пользователя.
package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-client/internal/api"
	"github.com/mmeshcher/stellar-client/internal/model"
)

// API описывает контракт backend, используемый слоем состояния.
type API interface {
	GetIngredients(ctx context.Context) ([]model.Ingredient, error)
	GetFeed(ctx context.Context) (*model.Feed, error)
	GetUserOrders(ctx context.Context) ([]model.Order, error)
	CreateOrder(ctx context.Context, ingredientIDs []string) (*model.Order, error)
	GetOrderByNumber(ctx context.Context, number int) ([]model.Order, error)
	Register(ctx context.Context, data model.RegisterData) (*api.AuthResult, error)
	Login(ctx context.Context, creds model.Credentials) (*api.AuthResult, error)
	Logout(ctx context.Context) error
	GetUser(ctx context.Context) (*model.User, error)
	UpdateUser(ctx context.Context, update model.ProfileUpdate) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, password, resetToken string) error
}

// TokenStore описывает побочные эффекты над хранилищем токенов,
// выполняемые при входе, регистрации и выходе.
type TokenStore interface {
	SetTokens(access, refresh string)
	Clear()
}

// Status описывает фазу асинхронной операции загрузки.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Store — агрегат состояния клиента и единственная точка его изменения.
// Каждый переход выполняется атомарно под общим мьютексом, поэтому
// переходы не чередуются между собой; сами сетевые вызовы при этом
// могут идти параллельно.
type Store struct {
	mu     sync.Mutex
	api    API
	tokens TokenStore
	logger *zap.Logger

	ingredients ingredientsState
	constructor constructorState
	order       orderState
	feed        feedState
	userOrders  userOrdersState
	auth        authState
}

// NewStore создаёт агрегат состояния поверх клиента API и хранилища токенов.
func NewStore(apiClient API, tokens TokenStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:    apiClient,
		tokens: tokens,
		logger: logger,

		ingredients: ingredientsState{status: StatusIdle},
		feed:        feedState{status: StatusIdle},
		userOrders:  userOrdersState{status: StatusIdle},
	}
}

// errMessage нормализует причину отказа: состояние никогда не хранит
// пустое сообщение об ошибке.
func errMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
