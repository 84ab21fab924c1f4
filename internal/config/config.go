package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/rbatista/grana/internal/projection"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Grana"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"grana"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Finance struct {
		DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"BRL"`
		// PeriodView selects bucketing: "monthly" or "cycle".
		PeriodView    string `envconfig:"PERIOD_VIEW" default:"monthly"`
		CycleStartDay int    `envconfig:"CYCLE_START_DAY" default:"1"`
		ForecastDays  int    `envconfig:"FORECAST_DAYS" default:"90"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// PeriodPolicy translates the finance settings into the engine's bucketing
// policy. Anything other than "cycle" reads as monthly.
func (c *Config) PeriodPolicy() projection.Policy {
	view := projection.ViewMonthly
	if c.Finance.PeriodView == "cycle" {
		view = projection.ViewFinancialCycle
	}

	return projection.Policy{View: view, CycleStartDay: c.Finance.CycleStartDay}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
