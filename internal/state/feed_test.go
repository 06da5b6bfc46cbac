package state

import (
	"context"
	"testing"

	"github.com/mmeshcher/stellar-client/internal/api"
	"github.com/mmeshcher/stellar-client/internal/model"
)

func TestFetchFeed_WholesaleReplace(t *testing.T) {
	apiStub := &stubAPI{
		feed: &model.Feed{
			Orders:     []model.Order{{Number: 2, Status: model.OrderStatusDone}, {Number: 1, Status: model.OrderStatusPending}},
			Total:      100,
			TotalToday: 10,
		},
	}
	store, _ := newTestStore(apiStub)

	if err := store.FetchFeed(context.Background()); err != nil {
		t.Fatalf("FetchFeed error: %v", err)
	}

	if store.FeedStatus() != StatusSucceeded {
		t.Fatalf("status = %s", store.FeedStatus())
	}
	if store.FeedTotal() != 100 || store.FeedTotalToday() != 10 {
		t.Fatalf("totals = %d/%d", store.FeedTotal(), store.FeedTotalToday())
	}

	apiStub.feed = &model.Feed{
		Orders:     []model.Order{{Number: 3, Status: model.OrderStatusDone}},
		Total:      101,
		TotalToday: 11,
	}
	if err := store.FetchFeed(context.Background()); err != nil {
		t.Fatalf("second FetchFeed error: %v", err)
	}

	orders := store.FeedOrders()
	if len(orders) != 1 || orders[0].Number != 3 {
		t.Fatalf("feed must be replaced wholesale, got %+v", orders)
	}
	if store.FeedTotal() != 101 {
		t.Fatalf("total = %d, want 101", store.FeedTotal())
	}
}

func TestFetchFeed_FallbackMessage(t *testing.T) {
	apiStub := &stubAPI{feedErr: &api.Error{}}
	store, _ := newTestStore(apiStub)

	if err := store.FetchFeed(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	if store.FeedStatus() != StatusFailed {
		t.Fatalf("status = %s, want failed", store.FeedStatus())
	}
	if store.FeedError() != "Failed to fetch all orders" {
		t.Fatalf("error = %q, want fallback", store.FeedError())
	}
}

func TestFeedStatusPanels_CappedAtTwenty(t *testing.T) {
	orders := make([]model.Order, 0, 50)
	for i := 1; i <= 25; i++ {
		orders = append(orders, model.Order{Number: i, Status: model.OrderStatusDone})
	}
	for i := 100; i < 103; i++ {
		orders = append(orders, model.Order{Number: i, Status: model.OrderStatusPending})
	}

	apiStub := &stubAPI{feed: &model.Feed{Orders: orders}}
	store, _ := newTestStore(apiStub)
	if err := store.FetchFeed(context.Background()); err != nil {
		t.Fatalf("FetchFeed error: %v", err)
	}

	ready := store.FeedReadyOrderNumbers()
	if len(ready) != 20 {
		t.Fatalf("ready = %d, want cap of 20", len(ready))
	}
	if ready[0] != 1 || ready[19] != 20 {
		t.Fatalf("ready numbers must keep feed order: %v", ready)
	}

	pending := store.FeedPendingOrderNumbers()
	if len(pending) != 3 || pending[0] != 100 {
		t.Fatalf("pending = %v", pending)
	}
}
