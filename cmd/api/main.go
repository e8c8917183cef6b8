package main

import (
	"projectbazaar/internal/config"
	"projectbazaar/internal/domain/model"
	"projectbazaar/internal/handler"
	"projectbazaar/internal/infra/db"
	"projectbazaar/internal/infra/mail"
	infraRepo "projectbazaar/internal/infra/repository"
	"projectbazaar/internal/infra/storage"
	"projectbazaar/internal/invoice"
	"projectbazaar/internal/notification"
	"projectbazaar/internal/server"
	"projectbazaar/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	//.envは無いこともある（本番は環境変数で渡す）
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.Project{},
		&model.Order{},
		&model.OrderStatusEntry{},
	); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	//カート保存先
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	//Repository生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	projectRepo := infraRepo.NewProjectGormRepository(gormDB)
	cartStore := infraRepo.NewCartRedisStore(redisClient, log)

	//レシート置き場
	blobStorage, err := storage.NewLocalBlobStorage(cfg.ReceiptDir, cfg.PublicBaseURL)
	if err != nil {
		log.WithError(err).Fatal("receipt storage init failed")
	}

	//通知（fire-and-forget）
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	dispatcher := notification.NewDispatcher(mailer, cfg.AdminEmail, log)

	//請求書レンダラ
	invoiceRenderer, err := invoice.NewRenderer(cfg.UpiID)
	if err != nil {
		log.WithError(err).Fatal("invoice renderer init failed")
	}

	//Usecase生成
	cartUC := usecase.NewCartUsecase(cartStore, projectRepo)
	receiptUC := usecase.NewReceiptUsecase(blobStorage)
	orderUC := usecase.NewOrderUsecase(txManager, dispatcher)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, dispatcher)

	//Handler生成
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(orderUC, receiptUC, invoiceRenderer, cfg.UpiID)
	adminOrderH := handler.NewAdminOrderHandler(adminOrderUC)

	//Server起動
	e := server.New()
	server.RegisterRoutes(e, cfg, cartH, orderH, adminOrderH)

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("starting server")
	if err := server.Start(addr, e); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
