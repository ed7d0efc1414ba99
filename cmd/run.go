package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"astraldraw/application"
	"astraldraw/config"
	"astraldraw/crypto"
	"astraldraw/database"
	"astraldraw/domain/interfaces"
	"astraldraw/infrastructure"
	"astraldraw/repository"
)

// Run initializes and starts the draw engine
func Run(ctx context.Context) error {
	log.Info("Starting astraldraw...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	codec, err := crypto.NewCodec(cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to initialize key codec: %w", err)
	}

	log.Info("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}
	log.Info("NATS event publisher initialized")

	// Each unit of work gets its own buffer so events only leave the
	// process after the owning transaction commits
	publisherFactory := func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNATSTransactionalPublisher(eventPublisher)
	}
	uowFactory := repository.NewUnitOfWorkFactory(db, publisherFactory)

	cache := infrastructure.NewRedisCacheStore(cfg.RedisAddrs, cfg.RedisPassword)

	subscriber := infrastructure.NewNATSEventSubscriber(natsClient, subjectMapper)
	if err := application.RegisterAnnouncementSubscriptions(subscriber); err != nil {
		return fmt.Errorf("failed to register event subscriptions: %w", err)
	}

	log.Info("Starting draw worker...")
	worker := application.NewDrawWorker(uowFactory, codec, cache)
	stopWorker := worker.Start(ctx)

	log.WithField("environment", cfg.Environment).Info("astraldraw is running")
	<-ctx.Done()

	log.Info("Shutting down...")
	stopWorker()

	if err := natsClient.Close(); err != nil {
		log.WithError(err).Error("Error closing NATS connection")
	}
	if err := cache.Close(); err != nil {
		log.WithError(err).Error("Error closing cache connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
