// Package main запускает консольный клиент Stellar Burgers: поднимает
// слой состояния и выполняет стартовую последовательность загрузок.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/stellar-client/internal/api"
	"github.com/mmeshcher/stellar-client/internal/config"
	"github.com/mmeshcher/stellar-client/internal/state"
	"github.com/mmeshcher/stellar-client/internal/token"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	_ = godotenv.Load()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	tokens := token.NewStore(cfg.AccessTokenTTL)
	client := api.NewClient(cfg.APIURL, cfg.RequestTimeout, tokens)
	store := state.NewStore(client, tokens, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sugar.Infow("starting stellar burgers client", "api", cfg.APIURL)

	// Стартовая последовательность: каталог, лента и проверка сессии
	// идут параллельно, каждая операция применяет свой переход независимо.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := store.FetchIngredients(gctx); err != nil {
			sugar.Warnw("ingredients unavailable", "error", store.IngredientsError())
		}
		return nil
	})

	g.Go(func() error {
		if err := store.FetchFeed(gctx); err != nil {
			sugar.Warnw("feed unavailable", "error", store.FeedError())
		}
		return nil
	})

	g.Go(func() error {
		if err := store.CheckAuth(gctx); err != nil {
			sugar.Infow("session not resumed", "error", store.CheckAuthError())
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("startup error", "error", err)
	}

	sugar.Infow("catalog loaded",
		"ingredients", len(store.Ingredients()),
		"status", store.IngredientsStatus(),
	)
	sugar.Infow("feed loaded",
		"orders", len(store.FeedOrders()),
		"total", store.FeedTotal(),
		"totalToday", store.FeedTotalToday(),
		"ready", store.FeedReadyOrderNumbers(),
		"pending", store.FeedPendingOrderNumbers(),
	)

	if user, ok := store.User(); ok {
		sugar.Infow("session resumed", "user", user.Email)

		if err := store.FetchUserOrders(ctx); err == nil {
			sugar.Infow("order history loaded", "orders", len(store.UserOrders()))
		}
	} else {
		sugar.Info("anonymous session")
	}
}
