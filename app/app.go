package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libraflow/borrowing-service/config"
	"github.com/libraflow/borrowing-service/internal/audit"
	"github.com/libraflow/borrowing-service/internal/handler"
	"github.com/libraflow/borrowing-service/internal/repository"
	"github.com/libraflow/borrowing-service/internal/server"
	"github.com/libraflow/borrowing-service/internal/service"
	"github.com/libraflow/borrowing-service/migrations"
	"github.com/libraflow/borrowing-service/pkg/kafka"
	"github.com/libraflow/borrowing-service/pkg/logger"
	"github.com/libraflow/borrowing-service/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "borrowing")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo %v", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka producer %v", err)
	}
	emitter := audit.NewEmitter(producer, kafka.AuditTopic, log)

	svc := service.NewService(repo, emitter, cfg.Borrowing, log)
	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	group, err := kafka.NewConsumerGroup(cfg.Kafka, kafka.AuditConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka consumer %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return kafka.Consume(ctx, group, audit.NewConsumer(repo.InsertAuditEntry, log), log, kafka.AuditTopic)
	})
	g.Go(func() error {
		return svc.RunOverdueSweeper(ctx, cfg.Borrowing.SweepInterval)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		if err := srv.Stop(closeCtx); err != nil {
			log.Error("srv.Stop", zap.Error(err))
		}
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
		return nil
	})

	err = g.Wait()
	db.Close()
	log.Info("Graceful shutdown finished")
	return err
}
