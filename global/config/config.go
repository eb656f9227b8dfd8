package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"salachat/logger"
)

// AppConfig carries everything the node needs to run. Values resolve in three
// layers: compiled defaults, then the YAML file (if present), then environment
// variables.
type AppConfig struct {
	Addr        string `yaml:"addr"`         // http listen address
	DatabaseURL string `yaml:"database_url"` // postgres DSN; empty => in-memory store
	JWTSecret   string `yaml:"jwt_secret"`

	PageSize  int `yaml:"page_size"`  // getHistory page size
	JumpOlder int `yaml:"jump_older"` // window half: target-inclusive older side
	JumpNewer int `yaml:"jump_newer"` // window half: newer side

	SendQueue     int `yaml:"send_queue"`     // per-connection outbound buffer
	FanoutQueue   int `yaml:"fanout_queue"`   // broadcast job queue
	MutationQueue int `yaml:"mutation_queue"` // serialized mutation queue
}

func Default() AppConfig {
	return AppConfig{
		Addr:          ":8080",
		JWTSecret:     "",
		PageSize:      50,
		JumpOlder:     25,
		JumpNewer:     25,
		SendQueue:     256,
		FanoutQueue:   1024,
		MutationQueue: 256,
	}
}

// Load resolves the effective configuration. path may be empty; a missing
// config file is not an error. A .env file next to the binary is honored the
// same way the rest of the stack does it.
func Load(path string) (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Debugf("[config] no .env loaded: %v", err)
	}

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, errors.Wrapf(err, "read config %s", path)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}

	overrideString(&cfg.Addr, "CHAT_ADDR")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideInt(&cfg.PageSize, "CHAT_PAGE_SIZE")
	overrideInt(&cfg.SendQueue, "CHAT_SEND_QUEUE")

	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.JumpOlder <= 0 {
		cfg.JumpOlder = 25
	}
	if cfg.JumpNewer <= 0 {
		cfg.JumpNewer = 25
	}
	return cfg, nil
}

func GetJwtSecret(cfg AppConfig) []byte {
	return []byte(cfg.JWTSecret)
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warnf("[config] %s=%q not an int, ignored", key, v)
		return
	}
	*dst = n
}
