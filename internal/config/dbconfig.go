package config

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DBConfig selects the report archive. An empty driver disables it.
type DBConfig struct {
	Driver   string `env:"DB_DRIVER" validate:"omitempty,oneof=sqlite postgres"`
	Path     string `env:"DB_PATH,default=data"`
	User     string `env:"DB_USER" validate:"required_if=Driver postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" validate:"required_if=Driver postgres"`
	Host     string `env:"DB_HOST" validate:"required_if=Driver postgres"`
}

func (c DBConfig) Enabled() bool {
	return c.Driver != ""
}

func NewDBConfig(ctx context.Context, envpath string) (*DBConfig, error) {
	if err := loadEnv(envpath); err != nil {
		return nil, err
	}

	cfg := &DBConfig{}
	err := envconfig.Process(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
