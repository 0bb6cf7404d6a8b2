package config

import (
	"errors"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

// LoadConfig reads config/server.yaml (when present) and ACERVO_* environment
// variables. The config file is optional; every key has a usable default.
func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("acervo")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.SetConfigName("server")
		viper.AddConfigPath("config")
		viper.AddConfigPath("/config")

		viper.SetDefault("server.port", 8080)
		viper.SetDefault("database.dsn", "file:acervo.db?_pragma=foreign_keys(1)")
		viper.SetDefault("general.seed_demo", false)
		viper.SetDefault("eventbus.buffer", 64)

		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				panic(err)
			}
		}
		configInstance = AppConfig{
			General: GeneralConfig{
				SeedDemo: viper.GetBool("general.seed_demo"),
			},
			Server: ServerConfig{
				Port: viper.GetInt("server.port"),
			},
			Database: DatabaseConfig{
				DSN: viper.GetString("database.dsn"),
			},
			EventBus: EventBusConfig{
				Buffer: viper.GetInt("eventbus.buffer"),
			},
		}
	})

	return configInstance
}

type AppConfig struct {
	General  GeneralConfig
	Server   ServerConfig
	Database DatabaseConfig
	EventBus EventBusConfig
}

type GeneralConfig struct {
	SeedDemo bool
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	DSN string
}

type EventBusConfig struct {
	Buffer int
}
