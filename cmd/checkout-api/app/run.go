package app

import (
	"context"
	"net/http"
	"time"

	"github.com/EnesMalik02/checkout-api/configs"
	"github.com/EnesMalik02/checkout-api/internal/adapter/cache"
	httpadapter "github.com/EnesMalik02/checkout-api/internal/adapter/http"
	"github.com/EnesMalik02/checkout-api/internal/adapter/http/middleware"
	"github.com/EnesMalik02/checkout-api/internal/adapter/payment/iyzico"
	"github.com/EnesMalik02/checkout-api/internal/catalog"
	"github.com/EnesMalik02/checkout-api/internal/logging"
	"github.com/EnesMalik02/checkout-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile)
	log := logging.New("app")

	// redis is optional; without it sessions live in process memory
	var (
		sessions usecase.SessionStore
		rdb      *redis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			return nil, nil, err
		}
		sessions = cache.NewRedisSessionStore(rdb, cfg.Session.TTL)
	} else {
		log.Warn("redis not configured, using in-memory session store")
		sessions = cache.NewMemorySessionStore(cfg.Session.TTL)
	}

	provider := iyzico.New(iyzico.Config{
		APIKey:      cfg.Iyzico.APIKey,
		SecretKey:   cfg.Iyzico.SecretKey,
		BaseURL:     cfg.Iyzico.BaseURL,
		CallbackURL: cfg.CallbackURL(),
		Currency:    cfg.Iyzico.Currency,
		Locale:      cfg.Iyzico.Locale,
	}, &http.Client{Timeout: cfg.Iyzico.Timeout})

	payments := usecase.NewPaymentService(provider)
	cat := catalog.Default()
	builder := usecase.NewOrderBuilder(cat)

	checkoutUC := usecase.NewInitiateCheckout(builder, payments, sessions, cfg.Iyzico.Currency)
	reconcileUC := usecase.NewReconcileCallback(payments, sessions)

	ch := httpadapter.NewCheckoutHandler(checkoutUC, cat)
	cb := httpadapter.NewCallbackHandler(reconcileUC, sessions, cfg.App.BaseURL)
	ops := httpadapter.NewPaymentOpsHandler(payments)
	th := httpadapter.NewTokenHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(ch, cb, ops, th, authz)

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	return &App{Router: router}, cleanup, nil
}
