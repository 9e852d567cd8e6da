package configs

import (
	"log"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

func GetConfig() *Config {
	once.Do(func() {
		config = &Config{
			Viper: newViper(),
		}
	})
	return config
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("board.history_limit", 256)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.channel", "board_events")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_key", "")
	v.SetDefault("auth.token_ttl_hours", 24)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("SOCKETBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Failed to read config file: %v", err)
		}
		log.Println("No config file found, using defaults and environment")
	}

	return v
}
