// Package model содержит доменные сущности клиента Stellar Burgers.
package model

import "time"

// IngredientType описывает категорию ингредиента в каталоге.
type IngredientType string

const (
	IngredientTypeBun   IngredientType = "bun"
	IngredientTypeMain  IngredientType = "main"
	IngredientTypeSauce IngredientType = "sauce"
)

// Ingredient представляет запись каталога ингредиентов. Записи создаются
// только загрузкой каталога и на клиенте не изменяются.
type Ingredient struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Type          IngredientType `json:"type"`
	Proteins      int            `json:"proteins"`
	Fat           int            `json:"fat"`
	Carbohydrates int            `json:"carbohydrates"`
	Calories      int            `json:"calories"`
	Price         int            `json:"price"`
	Image         string         `json:"image"`
	ImageLarge    string         `json:"image_large"`
	ImageMobile   string         `json:"image_mobile"`
}

// ConstructorIngredient — ингредиент, помещённый в собираемый бургер.
// InstanceID отличает повторные добавления одного и того же ингредиента.
type ConstructorIngredient struct {
	Ingredient
	InstanceID string `json:"uniqueId"`
}

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusCreated OrderStatus = "created"
	OrderStatusDone    OrderStatus = "done"
)

// Order описывает заказ. После создания клиент заказ не изменяет,
// только создаёт новые или запрашивает существующие по номеру.
type Order struct {
	ID          string      `json:"_id"`
	Number      int         `json:"number"`
	Name        string      `json:"name"`
	Status      OrderStatus `json:"status"`
	Ingredients []string    `json:"ingredients"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Feed содержит общую ленту заказов и агрегированные счётчики.
// Обновляется целиком при каждой загрузке, без инкрементального слияния.
type Feed struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	TotalToday int     `json:"totalToday"`
}

// User представляет аутентифицированного пользователя.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credentials — данные для входа.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterData — данные для регистрации нового пользователя.
type RegisterData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ProfileUpdate — частичное обновление профиля: пустые поля не отправляются.
type ProfileUpdate struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
}
