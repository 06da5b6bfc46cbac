// Package api предоставляет клиент для backend Stellar Burgers (Norma API).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/mmeshcher/stellar-client/internal/model"
)

// TokenStore описывает контракт хранилища токенов, используемый клиентом.
type TokenStore interface {
	Access() (string, bool)
	Refresh() (string, bool)
	SetTokens(access, refresh string)
}

// ErrTokenMissing возвращается, когда для операции нужен refresh токен,
// но в хранилище его нет.
var ErrTokenMissing = errors.New("no refresh token stored")

// Error — нормализованная ошибка API: и транспортный отказ с ответом,
// и ответ 200 с success=false приводятся к этой форме.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Message
}

// Client инкапсулирует HTTP-взаимодействие с Norma API.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	tokens     TokenStore
}

// NewClient создаёт клиент API по указанному адресу. Таймауты и повторы
// транспортного уровня принадлежат клиенту, а не слою состояния.
func NewClient(baseURL string, timeout time.Duration, tokens TokenStore) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.Logger = nil
	// после исчерпания повторов нужен последний ответ сервера,
	// а не транспортная ошибка: его сообщение уходит в *Error
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if timeout > 0 {
		rc.HTTPClient.Timeout = timeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: rc,
		tokens:     tokens,
	}
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (r *apiResponse) ok() bool              { return r.Success }
func (r *apiResponse) serverMessage() string { return r.Message }

type envelope interface {
	ok() bool
	serverMessage() string
}

// AuthResult содержит ответ на вход или регистрацию: пользователя и
// свежую пару токенов. Сохранение токенов — забота вызывающего.
type AuthResult struct {
	User         model.User
	AccessToken  string
	RefreshToken string
}

type authResponse struct {
	apiResponse
	User         model.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

type ingredientsResponse struct {
	apiResponse
	Data []model.Ingredient `json:"data"`
}

type feedResponse struct {
	apiResponse
	Orders     []model.Order `json:"orders"`
	Total      int           `json:"total"`
	TotalToday int           `json:"totalToday"`
}

type createOrderResponse struct {
	apiResponse
	Name  string      `json:"name"`
	Order model.Order `json:"order"`
}

type ordersResponse struct {
	apiResponse
	Orders []model.Order `json:"orders"`
}

type userResponse struct {
	apiResponse
	User model.User `json:"user"`
}

// GetIngredients загружает каталог ингредиентов.
func (c *Client) GetIngredients(ctx context.Context) ([]model.Ingredient, error) {
	var resp ingredientsResponse
	if err := c.do(ctx, http.MethodGet, "/ingredients", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetFeed загружает общую ленту заказов со счётчиками.
func (c *Client) GetFeed(ctx context.Context) (*model.Feed, error) {
	var resp feedResponse
	if err := c.do(ctx, http.MethodGet, "/orders/all", nil, "", &resp); err != nil {
		return nil, err
	}
	return &model.Feed{
		Orders:     resp.Orders,
		Total:      resp.Total,
		TotalToday: resp.TotalToday,
	}, nil
}

// GetUserOrders загружает заказы текущего пользователя.
func (c *Client) GetUserOrders(ctx context.Context) ([]model.Order, error) {
	var resp ordersResponse
	if err := c.doAuthed(ctx, http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

type createOrderRequest struct {
	Ingredients []string `json:"ingredients"`
}

// CreateOrder создаёт заказ из переданной последовательности
// идентификаторов ингредиентов.
func (c *Client) CreateOrder(ctx context.Context, ingredientIDs []string) (*model.Order, error) {
	var resp createOrderResponse
	req := createOrderRequest{Ingredients: ingredientIDs}
	if err := c.doAuthed(ctx, http.MethodPost, "/orders", req, &resp); err != nil {
		return nil, err
	}
	order := resp.Order
	return &order, nil
}

// GetOrderByNumber запрашивает заказ по его публичному номеру.
// Пустой список в успешном ответе означает, что заказ не найден;
// интерпретация этого случая — забота вызывающего.
func (c *Client) GetOrderByNumber(ctx context.Context, number int) ([]model.Order, error) {
	var resp ordersResponse
	path := fmt.Sprintf("/orders/%d", number)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// Register регистрирует нового пользователя и возвращает пару токенов.
func (c *Client) Register(ctx context.Context, data model.RegisterData) (*AuthResult, error) {
	return c.authCall(ctx, "/auth/register", data)
}

// Login выполняет вход и возвращает пару токенов.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*AuthResult, error) {
	return c.authCall(ctx, "/auth/login", creds)
}

func (c *Client) authCall(ctx context.Context, path string, body any) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, body, "", &resp); err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         resp.User,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

type refreshRequest struct {
	Token string `json:"token"`
}

// Logout завершает сессию на сервере по сохранённому refresh токену.
// Очистка хранилища токенов — забота вызывающего.
func (c *Client) Logout(ctx context.Context) error {
	refresh, ok := c.tokens.Refresh()
	if !ok {
		return ErrTokenMissing
	}

	var resp apiResponse
	return c.do(ctx, http.MethodPost, "/auth/logout", refreshRequest{Token: refresh}, "", &resp)
}

// GetUser возвращает профиль текущего пользователя.
func (c *Client) GetUser(ctx context.Context) (*model.User, error) {
	var resp userResponse
	if err := c.doAuthed(ctx, http.MethodGet, "/auth/user", nil, &resp); err != nil {
		return nil, err
	}
	user := resp.User
	return &user, nil
}

// UpdateUser частично обновляет профиль и возвращает его серверную версию.
func (c *Client) UpdateUser(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	var resp userResponse
	if err := c.doAuthed(ctx, http.MethodPatch, "/auth/user", update, &resp); err != nil {
		return nil, err
	}
	user := resp.User
	return &user, nil
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword запрашивает письмо для восстановления пароля.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	var resp apiResponse
	return c.do(ctx, http.MethodPost, "/password-reset", forgotPasswordRequest{Email: email}, "", &resp)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

// ResetPassword устанавливает новый пароль по коду из письма.
func (c *Client) ResetPassword(ctx context.Context, password, resetToken string) error {
	var resp apiResponse
	req := resetPasswordRequest{Password: password, Token: resetToken}
	return c.do(ctx, http.MethodPost, "/password-reset/reset", req, "", &resp)
}

// RefreshTokens обменивает сохранённый refresh токен на новую пару и
// сохраняет её в хранилище.
func (c *Client) RefreshTokens(ctx context.Context) error {
	refresh, ok := c.tokens.Refresh()
	if !ok {
		return ErrTokenMissing
	}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/token", refreshRequest{Token: refresh}, "", &resp); err != nil {
		return err
	}

	c.tokens.SetTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// doAuthed выполняет запрос с access токеном. Истёкший или отсутствующий
// access токен обновляется заранее, отказ с "jwt expired" обновляется и
// повторяется один раз.
func (c *Client) doAuthed(ctx context.Context, method, path string, body, out any) error {
	access, ok := c.tokens.Access()
	if !ok {
		if err := c.RefreshTokens(ctx); err != nil {
			return err
		}
		if access, ok = c.tokens.Access(); !ok {
			return ErrTokenMissing
		}
	}

	err := c.do(ctx, method, path, body, access, out)
	if !isJWTExpired(err) {
		return err
	}

	if err := c.RefreshTokens(ctx); err != nil {
		return err
	}
	access, ok = c.tokens.Access()
	if !ok {
		return ErrTokenMissing
	}
	return c.do(ctx, method, path, body, access, out)
}

func isJWTExpired(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Message == "jwt expired"
}

func (c *Client) do(ctx context.Context, method, path string, body any, accessToken string, out any) error {
	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	url := base + path

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", bearer(accessToken))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var fail apiResponse
		_ = json.Unmarshal(raw, &fail)
		msg := fail.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status: %d", resp.StatusCode)
		}
		return &Error{Message: msg, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if env, isEnv := out.(envelope); isEnv && !env.ok() {
		return &Error{Message: env.serverMessage(), StatusCode: resp.StatusCode}
	}

	return nil
}

func bearer(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}
