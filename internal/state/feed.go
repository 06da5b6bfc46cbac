package state

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-client/internal/model"
)

const fallbackFetchFeed = "Failed to fetch all orders"

// statusPanelLimit ограничивает списки номеров заказов в сводной панели ленты.
const statusPanelLimit = 20

type feedState struct {
	orders     []model.Order
	total      int
	totalToday int
	status     Status
	err        string
	lastSeq    uint64
}

// FetchFeed загружает общую ленту заказов. Успех заменяет ленту и
// счётчики целиком; пагинации нет, всегда последний снимок.
func (s *Store) FetchFeed(ctx context.Context) error {
	s.mu.Lock()
	s.feed.status = StatusLoading
	s.feed.err = ""
	s.feed.lastSeq++
	seq := s.feed.lastSeq
	s.mu.Unlock()

	feed, err := s.api.GetFeed(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.feed.lastSeq {
		return err
	}

	if err != nil {
		s.feed.status = StatusFailed
		s.feed.err = errMessage(err, fallbackFetchFeed)
		s.logger.Error("fetch feed error", zap.Error(err))
		return err
	}

	s.feed.status = StatusSucceeded
	s.feed.orders = feed.Orders
	s.feed.total = feed.Total
	s.feed.totalToday = feed.TotalToday
	return nil
}

// FeedOrders возвращает копию заказов ленты, от новых к старым.
func (s *Store) FeedOrders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]model.Order, len(s.feed.orders))
	copy(orders, s.feed.orders)
	return orders
}

// FeedTotal возвращает количество заказов за всё время.
func (s *Store) FeedTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.total
}

// FeedTotalToday возвращает количество заказов за сегодня.
func (s *Store) FeedTotalToday() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.totalToday
}

// FeedStatus возвращает фазу загрузки ленты.
func (s *Store) FeedStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.status
}

// FeedError возвращает сообщение последнего отказа загрузки ленты.
func (s *Store) FeedError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.err
}

// FeedReadyOrderNumbers возвращает номера выполненных заказов ленты,
// не более двадцати, в порядке ленты.
func (s *Store) FeedReadyOrderNumbers() []int {
	return s.feedNumbersByStatus(model.OrderStatusDone)
}

// FeedPendingOrderNumbers возвращает номера готовящихся заказов ленты,
// не более двадцати, в порядке ленты.
func (s *Store) FeedPendingOrderNumbers() []int {
	return s.feedNumbersByStatus(model.OrderStatusPending)
}

func (s *Store) feedNumbersByStatus(status model.OrderStatus) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	numbers := make([]int, 0, statusPanelLimit)
	for _, order := range s.feed.orders {
		if order.Status != status {
			continue
		}
		numbers = append(numbers, order.Number)
		if len(numbers) == statusPanelLimit {
			break
		}
	}
	return numbers
}
