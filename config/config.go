package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppConfig struct {
	App struct {
		Name string `mapstructure:"NAME"`
		Port string `mapstructure:"PORT"`
	}

	DATABASE struct {
		Postgres struct {
			DSN string `mapstructure:"URL"`
		}
		Redis struct {
			Addr     string `mapstructure:"ADDR"`
			Password string `mapstructure:"PASSWORD"`
		}
		Mongo struct {
			Url string `mapstructure:"URL"`
		}
	}

	ROOM struct {
		// TTL is the fixed lifetime of a room, set once at creation and never
		// extended. Defaults to 7 days.
		TTL time.Duration `mapstructure:"TTL"`
		// SweepInterval is how often the expiry sweeper scans for rooms past
		// their deadline.
		SweepInterval time.Duration `mapstructure:"SWEEP_INTERVAL"`
	}

	WORKER struct {
		PoolSize int `mapstructure:"POOL_SIZE"`
	}
}

var Conf *AppConfig

func LoadConfig() error {
	viper.SetConfigName("application")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("PAIRCHAT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("ROOM.TTL", 168*time.Hour)
	viper.SetDefault("ROOM.SWEEP_INTERVAL", time.Minute)
	viper.SetDefault("WORKER.POOL_SIZE", 5)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	Conf = &config
	log.Info().Msg("configuration loaded...")
	return nil
}
