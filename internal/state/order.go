package state

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-client/internal/api"
	"github.com/mmeshcher/stellar-client/internal/model"
)

const (
	fallbackCreateOrder  = "Failed to create order"
	fallbackOrderDetails = "Failed to fetch order details"
	messageOrderNotFound = "Order not found or API error"
)

type orderState struct {
	order          *model.Order
	details        *model.Order
	orderRequest   bool
	detailsRequest bool
	orderErr       string
	detailsErr     string
	detailsLastSeq uint64
}

// CreateOrder отправляет заказ из переданной последовательности
// идентификаторов (булка, начинки, булка). Предусловия — наличие булки и
// аутентификация — проверяет вызывающий; новая попытка начинается с
// чистого состояния.
func (s *Store) CreateOrder(ctx context.Context, ingredientIDs []string) error {
	s.mu.Lock()
	s.order.orderRequest = true
	s.order.orderErr = ""
	s.order.order = nil
	s.mu.Unlock()

	order, err := s.api.CreateOrder(ctx, ingredientIDs)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order.orderRequest = false
	if err != nil {
		s.order.orderErr = errMessage(err, fallbackCreateOrder)
		s.logger.Error("create order error", zap.Error(err))
		return err
	}

	s.order.order = order
	return nil
}

// FetchOrderByNumber запрашивает заказ по публичному номеру независимо от
// владельца. Успешный ответ с пустым списком трактуется как отказ.
func (s *Store) FetchOrderByNumber(ctx context.Context, number int) error {
	s.mu.Lock()
	s.order.detailsRequest = true
	s.order.detailsErr = ""
	s.order.details = nil
	s.order.detailsLastSeq++
	seq := s.order.detailsLastSeq
	s.mu.Unlock()

	orders, err := s.api.GetOrderByNumber(ctx, number)
	if err == nil && len(orders) == 0 {
		err = &api.Error{Message: messageOrderNotFound}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.order.detailsLastSeq {
		return err
	}

	s.order.detailsRequest = false
	if err != nil {
		s.order.details = nil
		s.order.detailsErr = errMessage(err, fallbackOrderDetails)
		s.logger.Error("fetch order details error", zap.Error(err), zap.Int("number", number))
		return err
	}

	order := orders[0]
	s.order.details = &order
	return nil
}

// ClearOrder сбрасывает созданный заказ и его ошибку, например при
// закрытии окна с результатом оформления.
func (s *Store) ClearOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order.order = nil
	s.order.orderErr = ""
}

// ClearOrderDetails сбрасывает просматриваемый заказ и его ошибку.
func (s *Store) ClearOrderDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order.details = nil
	s.order.detailsErr = ""
}

// Order возвращает заказ, созданный последней успешной отправкой.
func (s *Store) Order() (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order.order == nil {
		return model.Order{}, false
	}
	return *s.order.order, true
}

// OrderRequest сообщает, выполняется ли сейчас создание заказа.
func (s *Store) OrderRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.orderRequest
}

// OrderError возвращает сообщение последнего отказа создания заказа.
func (s *Store) OrderError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.orderErr
}

// OrderDetails возвращает заказ, найденный по номеру.
func (s *Store) OrderDetails() (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order.details == nil {
		return model.Order{}, false
	}
	return *s.order.details, true
}

// OrderDetailsRequest сообщает, выполняется ли сейчас поиск заказа.
func (s *Store) OrderDetailsRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.detailsRequest
}

// OrderDetailsError возвращает сообщение последнего отказа поиска заказа.
func (s *Store) OrderDetailsError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.detailsErr
}
