package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"vidtube/internal/config"
	"vidtube/internal/media"
	"vidtube/internal/model"
	mysqlClient "vidtube/internal/platform/mysql"
	rabbitmqClient "vidtube/internal/platform/rabbitmq"
	redisClient "vidtube/internal/platform/redis"
	"vidtube/internal/repository"
	"vidtube/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Media       media.Uploader
	WatchWorker *worker.WatchPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.Subscription{}, &model.WatchEntry{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	uploader, err := media.NewMinioUploader(ctx, media.MinioConfig{
		Endpoint:      cfg.Media.Endpoint,
		AccessKey:     cfg.Media.AccessKey,
		SecretKey:     cfg.Media.SecretKey,
		Bucket:        cfg.Media.Bucket,
		UseSSL:        cfg.Media.UseSSL,
		PublicBaseURL: cfg.Media.PublicBaseURL,
	})
	if err != nil {
		return nil, err
	}

	watchRepo := repository.NewWatchRepository(mysqlDB)
	watchWorker := worker.NewWatchPersistWorker(mqConn, watchRepo, cfg.RabbitMQ.WatchPersistQueue)
	if err := watchWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start watch worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		Media:       uploader,
		WatchWorker: watchWorker,
		StartedAt:   time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.WatchWorker != nil {
		a.WatchWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
