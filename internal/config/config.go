package config

import (
	"runtime"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	WorkspaceRoot      string `env:"WORKSPACE_ROOT" env-default:"workspaces"`
	WorkspaceTTLMin    int    `env:"WORKSPACE_TTL_MIN" env-default:"60"`
	LanguagesPath      string `env:"LANGUAGES_PATH" env-default:"languages"`
	CompileTimeoutMs   int    `env:"COMPILE_TIMEOUT_MS" env-default:"30000"`
	DefaultTimeLimitMs int    `env:"DEFAULT_TIME_LIMIT_MS" env-default:"2000"`
	MaxTestCases       int    `env:"MAX_TEST_CASES" env-default:"64"`
	MaxOutputSize      int64  `env:"MAX_OUTPUT_SIZE" env-default:"1048576"`
	MinIOHost          string `env:"MINIO_HOST" env-default:"127.0.0.1:9000"`
	MinIOLogin         string `env:"MINIO_LOGIN" env-required:"true"`
	MinIOPassword      string `env:"MINIO_PASSWORD" env-required:"true"`
	MinIOBucket        string `env:"MINIO_BUCKET" env-default:"testcases"`
	RabbitMQHost       string `env:"RABBIT_HOST" env-default:"127.0.0.1"`
	RabbitMQPort       int    `env:"RABBIT_PORT" env-default:"5672"`
	RabbitMQUser       string `env:"RABBIT_USER" env-required:"true"`
	RabbitMQPassword   string `env:"RABBIT_PASSWORD" env-required:"true"`
	WorkersCount       int    `env:"WORKERS_COUNT" env-default:"0"`
	LogLevel           string `env:"LOG_LEVEL" env-default:"info"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}

	err := cleanenv.ReadConfig(".env", cfg)
	if err != nil {
		return nil, err
	}
	if cfg.WorkersCount <= 0 {
		cfg.WorkersCount = runtime.NumCPU()
	}

	return cfg, nil
}
