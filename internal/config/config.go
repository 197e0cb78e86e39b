package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env-default:"8080"`
	Redis      Redis     `yaml:"redis"`
	Room       Room      `yaml:"room"`
	Bot        Bot       `yaml:"bot"`
	Chess      Chess     `yaml:"chess"`
	Crossword  Crossword `yaml:"crossword"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Room struct {
	TTL time.Duration `yaml:"ttl" env-default:"1h"`
}

type Bot struct {
	ThinkDelay time.Duration `yaml:"think-delay" env-default:"1s"`
}

type Chess struct {
	EngineURL string `yaml:"engine-url" env-default:""`
}

type Crossword struct {
	FeedURL      string        `yaml:"feed-url" env-default:""`
	FetchTimeout time.Duration `yaml:"fetch-timeout" env-default:"10s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
