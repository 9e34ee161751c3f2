package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-circulation/circulation/config"
	"github.com/Astemirdum/library-circulation/circulation/internal/handler"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/circulation/internal/scanner"
	"github.com/Astemirdum/library-circulation/circulation/internal/scheduler"
	"github.com/Astemirdum/library-circulation/circulation/internal/server"
	"github.com/Astemirdum/library-circulation/circulation/internal/service/notification"
	"github.com/Astemirdum/library-circulation/circulation/internal/service/reservation"
	"github.com/Astemirdum/library-circulation/circulation/internal/transport"
	"github.com/Astemirdum/library-circulation/circulation/internal/worker"
	"github.com/Astemirdum/library-circulation/circulation/migrations"
	"github.com/Astemirdum/library-circulation/pkg/circuit_breaker"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/pkg/logger"
	"github.com/Astemirdum/library-circulation/pkg/postgres"
	"github.com/Astemirdum/library-circulation/pkg/redis"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "circulation")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	defer db.Close()
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var producer sarama.SyncProducer
	if cfg.Transport.Kind == transport.KindKafka {
		if producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close()
	}
	deliverer, err := transport.New(transport.Config{
		Kind: cfg.Transport.Kind,
		Postmark: transport.PostmarkConfig{
			ServerToken:  cfg.Postmark.ServerToken,
			AccountToken: cfg.Postmark.AccountToken,
			From:         cfg.Postmark.From,
			ReplyTo:      cfg.Postmark.ReplyTo,
		},
		Topic: kafka.NotificationTopic,
		Breaker: circuit_breaker.Settings{
			RecordLength:     cfg.Transport.BreakerWindow,
			Timeout:          cfg.Transport.BreakerTimeout,
			Percentile:       cfg.Transport.BreakerThreshold,
			RecoveryRequests: cfg.Transport.BreakerRecovery,
		},
	}, producer, log)
	if err != nil {
		log.Fatal("transport", zap.Error(err))
	}

	var workerOpts []worker.Option
	if cfg.Redis.URL != "" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("redis", zap.Error(err))
		}
		defer client.Close()
		workerOpts = append(workerOpts, worker.WithLocker(worker.NewRedisLocker(goredis.UniversalClient(client), log)))
	}

	notificationSvc := notification.NewService(repo, log, time.Now)
	reservationSvc := reservation.NewService(repo, log, cfg.Reservation.HoldPeriod, time.Now)
	w := worker.New(repo, deliverer, log, worker.Config{
		BatchSize: cfg.Worker.BatchSize,
		Retention: cfg.Worker.Retention,
		LockTTL:   cfg.Worker.LockTTL,
	}, workerOpts...)
	sc := scanner.New(repo, notificationSvc, log, scanner.Config{
		OverdueDedup:    cfg.Scanner.OverdueDedup,
		DueSoonWindow:   cfg.Scanner.DueSoonWindow,
		DueSoonDedup:    cfg.Scanner.DueSoonDedup,
		FinePerDayCents: cfg.Scanner.FinePerDayCents,
	}, time.Now)

	sched, err := newScheduler(cfg, log, w, sc, reservationSvc)
	if err != nil {
		log.Fatal("scheduler", zap.Error(err))
	}

	h := handler.New(reservationSvc, notificationSvc, w, sc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		if err := sched.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		sched.Stop()
		return nil
	})
	if !cfg.Kafka.Disabled {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.CirculationConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		g.Go(func() error {
			<-gctx.Done()
			return consumer.Close()
		})
		g.Go(func() error {
			if err := kafka.Consume(gctx, consumer, handler.NewConsumer(reservationSvc, log), kafka.CheckinTopic); err != nil {
				log.Error("kafka.Consume", zap.Error(err))
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("run", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}

func newScheduler(
	cfg *config.Config,
	log *zap.Logger,
	w *worker.Worker,
	sc *scanner.Scanner,
	reservationSvc *reservation.Service,
) (*scheduler.Scheduler, error) {
	scanAt, err := scheduler.ParseDaily(cfg.Scanner.RunAt...)
	if err != nil {
		return nil, err
	}
	cleanupAt, err := scheduler.ParseDaily(cfg.Worker.CleanupAt)
	if err != nil {
		return nil, err
	}

	s := scheduler.New(log)
	jobs := []struct {
		name     string
		schedule scheduler.Schedule
		job      scheduler.Job
	}{
		{"process-notifications", scheduler.Every(cfg.Worker.Interval, cfg.Worker.InitialDelay), func(ctx context.Context) error {
			_, err := w.ProcessBatch(ctx)
			return err
		}},
		{"scan-loans", scanAt, func(ctx context.Context) error {
			_, err := sc.ScanAll(ctx)
			return err
		}},
		{"expire-reservations", scheduler.Every(cfg.Scanner.ExpirySweepPeriod, cfg.Scanner.ExpirySweepPeriod), func(ctx context.Context) error {
			_, err := reservationSvc.ExpireSweep(ctx)
			return err
		}},
		{"cleanup-notifications", cleanupAt, func(ctx context.Context) error {
			_, err := w.Cleanup(ctx)
			return err
		}},
	}
	for _, j := range jobs {
		if err := s.Add(j.name, j.schedule, j.job); err != nil {
			return nil, err
		}
	}
	return s, nil
}
