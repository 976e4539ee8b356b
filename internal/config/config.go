package config

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"log"
	"time"

	com "github.com/citizenwallet/governance/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

var ErrMissingPrivateKey = errors.New("PRIVATE_KEY is not set")

type Config struct {
	Network              string        `env:"NETWORK"`
	RPCURL               string        `env:"RPC_URL,default=http://localhost:8545" validate:"required,url"`
	PrivateKey           string        `env:"PRIVATE_KEY" validate:"omitempty,hexadecimal"`
	GovernanceAddress    string        `env:"GOVERNANCE_ADDRESS" validate:"omitempty,eth_addr"`
	TokenAddress         string        `env:"TOKEN_ADDRESS" validate:"omitempty,eth_addr"`
	ArtifactsDir         string        `env:"ARTIFACTS_DIR,default=artifacts"`
	DeploymentsPath      string        `env:"DEPLOYMENTS_PATH,default=deployments.json"`
	DeploymentConfigPath string        `env:"DEPLOYMENT_CONFIG_PATH,default=config/deployment.json"`
	ReportsDir           string        `env:"REPORTS_DIR,default=."`
	RulesPath            string        `env:"RULES_PATH"`
	TxTimeout            time.Duration `env:"TX_TIMEOUT,default=2m" validate:"gt=0"`
	SentryURL            string        `env:"SENTRY_URL"`
	DiscordURL           string        `env:"DISCORD_URL" validate:"omitempty,url"`
	OperatorAddress      string        `env:"OPERATOR_ADDRESS" validate:"omitempty,eth_addr"`
	LogLevel             string        `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	LogFile              string        `env:"LOG_FILE"`

	DB DBConfig
}

// New loads the optional env file, then the process environment, and validates the result
func New(ctx context.Context, envpath string) (*Config, error) {
	if err := loadEnv(envpath); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := envconfig.Process(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Key parses PRIVATE_KEY, with or without the 0x prefix
func (c *Config) Key() (*ecdsa.PrivateKey, error) {
	if c.PrivateKey == "" {
		return nil, ErrMissingPrivateKey
	}

	return com.HexToPrivateKey(c.PrivateKey)
}

func loadEnv(envpath string) error {
	if envpath == "" {
		return nil
	}

	log.Default().Println("loading env from file: ", envpath)
	return godotenv.Load(envpath)
}
