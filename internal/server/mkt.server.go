package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/config"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/handler"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/provider/gateway"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/repository"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/router"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/service/mailer"
	adminuc "github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/admin"
	authuc "github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/auth"
	checkoutuc "github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/checkout"
	notificationuc "github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/notification"
	productuc "github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/product"
	wishlistuc "github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/wishlist"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/cache"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/id"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/jwtutil"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/middleware"
)

const expirySweepInterval = 10 * time.Minute

type Server struct {
	httpServer *http.Server
	db         *pgxpool.Pool
	logger     *zap.Logger
	checkout   *checkoutuc.Usecase
	stopSweep  context.CancelFunc
}

func New(cfg *config.AppConfig) *Server {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	db := config.ConnectDB(cfg)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("failed to create upload dir %s: %v", cfg.UploadDir, err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
	appCache := cache.NewCache([]string{cfg.RedisAddr}, cfg.RedisPass, false)

	sf, err := id.NewSnowflake(cfg.NodeID)
	if err != nil {
		log.Fatalf("invalid node ID: %v", err)
	}

	jwtGen, jwtVer := jwtutil.LoadAndBuild(cfg.JWT)

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// External collaborators
	gw := gateway.NewClient(
		cfg.Gateway.BaseURL, cfg.Gateway.ServerKey, cfg.Gateway.ClientKey,
		cfg.Gateway.Environment, logger,
	)
	var mail mailer.Sender = mailer.Noop{}
	if cfg.SMTP.Host != "" {
		mail = mailer.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass)
	}

	// Usecases
	notificationUC := notificationuc.New(notificationRepo, notificationuc.NewNotifier(), sf)
	authUC := authuc.New(accountRepo, jwtGen, mail, appCache, sf, cfg.PublicBaseURL)
	productUC := productuc.New(productRepo, sf)
	wishlistUC := wishlistuc.New(wishlistRepo, productRepo, sf)

	cfgCache := checkoutuc.NewConfigCache(func() (checkoutuc.GatewayConfig, error) {
		return checkoutuc.GatewayConfig{
			ClientKey:   cfg.Gateway.ClientKey,
			Environment: cfg.Gateway.Environment,
		}, nil
	}, cfg.Gateway.ConfigTTL, nil)

	checkoutUC := checkoutuc.New(
		orderRepo, productRepo, accountRepo, gw, notificationUC,
		cfgCache, sf, logger, cfg.PendingOrderGrace,
	)
	adminUC := adminuc.New(productRepo, accountRepo, notificationUC, logger)

	am := middleware.NewAuthMiddleware(jwtVer, accountRepo, appCache, logger)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC, cfg.UploadDir, cfg.PublicBaseURL),
		Payment:      handler.NewPaymentHandler(checkoutUC, logger),
		Order:        handler.NewOrderHandler(checkoutUC),
		Wishlist:     handler.NewWishlistHandler(wishlistUC),
		Notification: handler.NewNotificationHandler(notificationUC),
		Admin:        handler.NewAdminHandler(adminUC),
	}

	r := router.New(am, rdb, handlers, cfg.CORSOrigins, cfg.UploadDir)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	srv := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		db:        db,
		logger:    logger,
		checkout:  checkoutUC,
		stopSweep: stopSweep,
	}
	go srv.sweepPendingOrders(sweepCtx)

	return srv
}

// sweepPendingOrders expires abandoned pending orders on a ticker until
// shutdown.
func (s *Server) sweepPendingOrders(ctx context.Context) {
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.checkout.ExpireStale(ctx); err != nil {
				s.logger.Warn("pending order sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.stopSweep()
	defer s.db.Close()
	defer s.logger.Sync()
	return s.httpServer.Shutdown(ctx)
}
