package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gunnhildr/library-api/pkg/logger"
	"github.com/gunnhildr/library-api/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8081"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

const defaultTimeout = 10 * time.Second

type Config struct {
	Server   HTTPServer  `yaml:"server"`
	Database postgres.DB `yaml:"db"`
	Log      logger.Log  `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
// Options are applied first, so values present in the environment win.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		config, err := Load(ops...)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func Load(ops ...Option) (*Config, error) {
	var config Config
	for _, op := range ops {
		op(&config)
	}
	if err := envconfig.Process("", &config); err != nil {
		return nil, err
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = defaultTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = defaultTimeout
	}
	return &config, nil
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
