package state

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-client/internal/model"
)

const fallbackFetchUserOrders = "Failed to fetch user orders"

type userOrdersState struct {
	orders  []model.Order
	status  Status
	err     string
	lastSeq uint64
}

// FetchUserOrders загружает заказы текущего пользователя. Требует
// аутентифицированной сессии: клиент API сам прикладывает access токен.
func (s *Store) FetchUserOrders(ctx context.Context) error {
	s.mu.Lock()
	s.userOrders.status = StatusLoading
	s.userOrders.err = ""
	s.userOrders.lastSeq++
	seq := s.userOrders.lastSeq
	s.mu.Unlock()

	orders, err := s.api.GetUserOrders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.userOrders.lastSeq {
		return err
	}

	if err != nil {
		s.userOrders.status = StatusFailed
		s.userOrders.err = errMessage(err, fallbackFetchUserOrders)
		s.logger.Error("fetch user orders error", zap.Error(err))
		return err
	}

	s.userOrders.status = StatusSucceeded
	s.userOrders.orders = orders
	return nil
}

// UserOrders возвращает копию истории заказов пользователя.
func (s *Store) UserOrders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]model.Order, len(s.userOrders.orders))
	copy(orders, s.userOrders.orders)
	return orders
}

// UserOrdersStatus возвращает фазу загрузки истории заказов.
func (s *Store) UserOrdersStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userOrders.status
}

// UserOrdersError возвращает сообщение последнего отказа загрузки истории.
func (s *Store) UserOrdersError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userOrders.err
}
