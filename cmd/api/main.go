package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/mq"
	infraRepo "app/internal/infra/repository"
	"app/internal/secrets"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/worker"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// mq.Publisherをusecase.OrderEventsに合わせる薄いアダプタ。
// publish失敗で注文処理は失敗させない（ログのみ）
type orderEventsAdapter struct {
	pub    *mq.Publisher
	logger *log.Logger
}

func (a *orderEventsAdapter) OrderPlaced(ctx context.Context, orderID, tenantID, customerID, total int64) {
	err := a.pub.OrderPlaced(ctx, mq.OrderEvent{
		OrderID:    orderID,
		TenantID:   tenantID,
		CustomerID: customerID,
		Status:     "PENDING",
		Total:      total,
		OccurredAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		a.logger.Warnf("publish order.placed for order %d: %v", orderID, err)
	}
}

func (a *orderEventsAdapter) OrderStatus(ctx context.Context, orderID, tenantID, customerID int64, status string) {
	err := a.pub.OrderStatus(ctx, mq.OrderEvent{
		OrderID:    orderID,
		TenantID:   tenantID,
		CustomerID: customerID,
		Status:     status,
		OccurredAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		a.logger.Warnf("publish order.status for order %d: %v", orderID, err)
	}
}

func main() {
	logger := log.New("api")
	logger.SetHeader("${time_rfc3339} ${prefix} ${level}")

	//ローカル開発用。本番では環境変数を直接入れる
	if err := godotenv.Load("../.env"); err != nil {
		logger.Info("no .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.Tenant{},
		&model.Customer{},
		&model.Product{},
		&model.Address{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderTracking{},
		&model.LoyaltyTransaction{},
		&model.StockJob{},
		&model.StockAdjustment{},
	); err != nil {
		logger.Fatalf("migrate: %v", err)
	}

	//決済secret暗号化
	box, err := secrets.NewBox(cfg.MasterKey)
	if err != nil {
		logger.Fatalf("init secrets: %v", err)
	}

	//repository
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	tenantRepo := infraRepo.NewTenantGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	loyaltyRepo := infraRepo.NewLoyaltyGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	stockJobRepo := infraRepo.NewStockJobGormRepository(gormDB)

	//イベント発行はRABBITMQ_URLがあるときだけ
	var events usecase.OrderEvents
	if cfg.RabbitURL != "" {
		pub, err := mq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("connect rabbitmq: %v", err)
		}
		defer pub.Close()
		events = &orderEventsAdapter{pub: pub, logger: logger}
	}

	//usecase
	shipping := usecase.NewTenantFlatFeePolicy()
	orderUC := usecase.NewOrderUsecase(txManager, tenantRepo, customerRepo, addressRepo, shipping, events)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	paymentUC := usecase.NewPaymentUsecase(txManager, tenantRepo, box, cfg.PlatformKeyID, cfg.PlatformKeySecret, events)
	loyaltyUC := usecase.NewLoyaltyUsecase(txManager, customerRepo, loyaltyRepo)
	productUC := usecase.NewProductUsecase(txManager, productRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)

	//handler
	handlers := server.Handlers{
		Order:   handler.NewOrderHandler(orderUC),
		Cart:    handler.NewCartHandler(cartUC),
		Payment: handler.NewPaymentHandler(paymentUC),
		Loyalty: handler.NewLoyaltyHandler(loyaltyUC),
		Product: handler.NewProductHandler(productUC),
		Address: handler.NewAddressHandler(addressUC),
	}

	//在庫調整ワーカー
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stockWorker := worker.NewStockWorker(
		stockJobRepo,
		inventoryRepo,
		time.Duration(cfg.StockWorkerInterval)*time.Second,
		cfg.StockWorkerAttempts,
	)
	go stockWorker.Run(ctx)

	e := server.New(cfg, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("shutdown: %v", err)
		}
	}()

	if err := server.Start(e, cfg); err != nil {
		logger.Infof("server stopped: %v", err)
	}
}
