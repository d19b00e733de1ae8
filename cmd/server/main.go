package main

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/config"
    "github.com/poslight/pos-backend/internal/database"
    "github.com/poslight/pos-backend/internal/handler"
    "github.com/poslight/pos-backend/internal/middleware"
    "github.com/poslight/pos-backend/internal/queue"
    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/router"
    "github.com/poslight/pos-backend/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()
    handler.Verbose = cfg.Env != "prod"

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Repositories.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    tables := repository.NewTableRepo(db)
    sessions := repository.NewSessionRepo(db)
    reservations := repository.NewReservationRepo(db)
    orders := repository.NewOrderRepo(db)
    menu := repository.NewMenuRepo(db)
    payments := repository.NewPaymentRepo(db)
    settings := repository.NewSettingsRepo(db)

    // Services, all publishing over the shared event channel.
    publish := service.Publisher(queue.Publish)
    sessionSvc := service.NewSessionService(sessions, tables, publish)
    reservationSvc := service.NewReservationService(reservations, tables, sessions, settings, publish)
    orderSvc := service.NewOrderService(orders, tables, menu, publish)
    billingSvc := service.NewBillingService(sessions, tables, orders, payments, publish)

    handlers := router.Handlers{
        Auth:         handler.NewAuthHandler(cfg, users, tokens),
        Sessions:     handler.NewSessionHandler(sessionSvc, sessions, orders),
        Reservations: handler.NewReservationHandler(reservationSvc, reservations),
        Billing:      handler.NewBillingHandler(billingSvc, payments),
        Tables:       handler.NewTableHandler(tables),
        Orders:       handler.NewOrderHandler(orderSvc, orders),
        Menu:         handler.NewMenuHandler(menu),
        Settings:     handler.NewSettingsHandler(settings),
        Plugs:        handler.NewPlugHandler(tables, publish),
        Reports:      handler.NewReportHandler(sessions, reservations, payments),
    }

    // The plug consumer reconnects on its own; a broker outage only
    // delays power switching, it never blocks the API.
    go func() {
        if err := queue.StartPlugConsumer(); err != nil {
            log.Printf("plug consumer stopped: %v", err)
        }
    }()

    // Hourly sweep of long-expired refresh tokens.
    go func() {
        for range time.Tick(time.Hour) {
            if n, err := tokens.PruneExpired(context.Background(), time.Now().UTC()); err != nil {
                log.Printf("token prune: %v", err)
            } else if n > 0 {
                log.Printf("token prune: removed %d expired tokens", n)
            }
        }
    }()

    e := echo.New()
    e.HideBanner = true

    rdb := config.NewRedisClient()
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handlers.Auth, cfg.JWTSecret)
    router.RegisterAPI(e, handlers, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
