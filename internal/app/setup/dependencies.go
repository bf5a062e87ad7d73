package setup

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-moderation-service/internal/config"
	"github.com/LavaJover/shvark-moderation-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	publisher "github.com/LavaJover/shvark-moderation-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config     *config.ModerationConfig
	Logger     *slog.Logger
	DB         *gorm.DB
	Transactor domain.Transactor
	Vault      domain.TokenVault
	// Publisher stays nil when no Kafka broker is configured.
	Publisher  domain.EventPublisher
	Subscriber *publisher.ReportSubscriber
	Registry   *prometheus.Registry
	Metrics    *metrics.ModerationMetrics

	closers []func() error
}

func InitializeDependencies(cfg *config.ModerationConfig, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewModerationMetrics(deps.Registry)

	if err := deps.initStorage(); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := deps.initVault(); err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}
	deps.initKafka()

	return deps, nil
}

func (d *Dependencies) initStorage() error {
	switch d.Config.Moderation.Storage {
	case "postgres":
		db, err := postgres.InitDB(d.Config.ModerationDB, d.Logger)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		d.DB = db
		d.Transactor = repository.NewTransactor(db)
		d.closers = append(d.closers, sqlDB.Close)
	default:
		d.Logger.Warn("using in-memory storage, state is lost on restart")
		d.Transactor = memory.NewStore()
	}
	return nil
}

func (d *Dependencies) initVault() error {
	if d.Config.WalletService.Host == "" {
		d.Logger.Warn("wallet service is not configured, deposits are served by an in-memory vault",
			"initial_holdings", d.Config.WalletService.InitialHoldings,
		)
		d.Vault = memory.NewVault(memory.WithInitialHoldings(d.Config.WalletService.InitialHoldings))
		return nil
	}
	walletHandler, err := handlers.NewHTTPWalletHandler(fmt.Sprintf("http://%s:%s", d.Config.WalletService.Host, d.Config.WalletService.Port))
	if err != nil {
		return err
	}
	d.Vault = walletHandler
	return nil
}

func (d *Dependencies) initKafka() {
	if d.Config.KafkaService.Host == "" {
		d.Logger.Warn("kafka is not configured, moderation events are not published")
		return
	}
	brokers := []string{fmt.Sprintf("%s:%s", d.Config.KafkaService.Host, d.Config.KafkaService.Port)}

	kafkaPublisher := publisher.NewKafkaPublisher(brokers, d.Config.KafkaService.EventsTopic)
	d.Publisher = kafkaPublisher
	d.closers = append(d.closers, kafkaPublisher.Close)

	if d.Config.KafkaService.ReportsTopic != "" {
		d.Subscriber = publisher.NewReportSubscriber(
			brokers,
			d.Config.KafkaService.ReportsTopic,
			d.Config.KafkaService.GroupID,
			d.Logger,
		)
	}
}

func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}
