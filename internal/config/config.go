package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ModerationConfig struct {
	Env           string `yaml:"env" env:"MODERATION_ENV" env-default:"local"`
	GRPCServer    `yaml:"grpc_server"`
	MetricsServer `yaml:"metrics_server"`
	ModerationDB  `yaml:"moderation_db"`
	LogConfig     `yaml:"log_config"`
	KafkaService  `yaml:"kafka_service"`
	WalletService `yaml:"wallet_service"`
	Auth          `yaml:"auth"`
	Moderation    `yaml:"moderation"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type MetricsServer struct {
	Host string `yaml:"host" env:"METRICS_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"METRICS_PORT" env-default:"9090"`
}

type ModerationDB struct {
	Dsn            string `yaml:"dsn" env:"MODERATION_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"MODERATION_MIGRATIONS_PATH" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Host        string `yaml:"host" env:"KAFKA_HOST"`
	Port        string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	EventsTopic string `yaml:"events_topic" env:"KAFKA_EVENTS_TOPIC" env-default:"moderation-events"`
	// ReportsTopic carries post reports from the content service. Empty disables the consumer.
	ReportsTopic string `yaml:"reports_topic" env:"KAFKA_REPORTS_TOPIC"`
	GroupID      string `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"moderation-service"`
}

type WalletService struct {
	Host string `yaml:"host" env:"WALLET_HOST"`
	Port string `yaml:"port" env:"WALLET_PORT"`

	// InitialHoldings seeds every participant of the in-memory vault used when
	// Host is empty.
	InitialHoldings uint64 `yaml:"initial_holdings" env:"WALLET_INITIAL_HOLDINGS" env-default:"1000000"`
}

type Auth struct {
	// JWTSecret enables bearer token authentication. Without it the caller is
	// taken from the x-participant-id metadata.
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
}

type Moderation struct {
	Storage             string        `yaml:"storage" env:"MODERATION_STORAGE" env-default:"memory"`
	MaxReportCount      uint64        `yaml:"max_report_count" env:"MAX_REPORT_COUNT" env-default:"4"`
	MinVoteCount        int           `yaml:"min_vote_count" env:"MIN_VOTE_COUNT" env-default:"8"`
	OpenDisputeStake    uint64        `yaml:"open_dispute_stake" env:"OPEN_DISPUTE_STAKE" env-default:"1000"`
	VoteStake           uint64        `yaml:"vote_stake" env:"VOTE_STAKE" env-default:"100"`
	MinVotingPeriod     time.Duration `yaml:"min_voting_period" env:"MIN_VOTING_PERIOD" env-default:"24h"`
	AutoResolveInterval time.Duration `yaml:"auto_resolve_interval" env:"AUTO_RESOLVE_INTERVAL" env-default:"1m"`
}

func (c *ModerationConfig) Validate() error {
	if c.Moderation.MaxReportCount == 0 {
		return fmt.Errorf("max_report_count must be positive")
	}
	if c.Moderation.OpenDisputeStake > math.MaxInt64 || c.Moderation.VoteStake > math.MaxInt64 {
		return fmt.Errorf("stakes must not exceed %d", int64(math.MaxInt64))
	}
	if c.Moderation.MinVotingPeriod < 0 {
		return fmt.Errorf("min_voting_period must not be negative")
	}
	switch c.Moderation.Storage {
	case "memory":
	case "postgres":
		if c.ModerationDB.Dsn == "" {
			return fmt.Errorf("moderation_db.dsn is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Moderation.Storage)
	}
	return nil
}

// Load reads the YAML file at configPath, applies environment overrides and validates the result.
func Load(configPath string) (*ModerationConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg ModerationConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func MustLoad() *ModerationConfig {
	// Processing env config variable and file
	configPath := os.Getenv("MODERATION_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("MODERATION_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}
