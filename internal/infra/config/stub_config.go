package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// StubConfig 服务配置
type StubConfig struct {
	Server   ServerConfig    `yaml:"server"`
	Log      LogConfig       `yaml:"log"`
	Fixtures FixtureConfig   `yaml:"fixtures"`
	Stubs    StubFilesConfig `yaml:"stubs"`
}

// Connection failure policies for the stub listener.
const (
	ConnectionFailureFatal = "fatal" // panic, the stub cannot be represented
	ConnectionFailureDrop  = "drop"  // hijack and close the client connection
)

type ServerConfig struct {
	Host              string `json:"host" yaml:"host"`
	Port              int    `json:"port" yaml:"port"` // 0 picks a free port
	ConnectionFailure string `json:"connectionFailure" yaml:"connectionFailure"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LogConfig struct {
	FilePath          string `json:"filePath" yaml:"filePath"` // empty logs to stdout only
	Level             string `json:"level" yaml:"level"`
	MaxSizeMB         int    `json:"maxSizeMB" yaml:"maxSizeMB"`
	MaxBackups        int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAgeDays        int    `json:"maxAgeDays" yaml:"maxAgeDays"`
	Compress          bool   `json:"compress" yaml:"compress"`
	DisableStubEvents bool   `json:"disableStubEvents" yaml:"disableStubEvents"`
}

// Fixture sources.
const (
	FixtureSourceDir   = "dir"
	FixtureSourceRedis = "redis"
	FixtureSourceS3    = "s3"
	FixtureSourceMySQL = "mysql"
)

// FixtureConfig 描述 JSON fixture 的来源和加载参数
type FixtureConfig struct {
	Source     string        `json:"source" yaml:"source"`
	Dir        string        `json:"dir" yaml:"dir"`
	PoolSize   int           `json:"poolSize" yaml:"poolSize"`
	RetryCount int           `json:"retryCount" yaml:"retryCount"`
	RetryDelay time.Duration `json:"retryDelay" yaml:"retryDelay"`
	Redis      RedisConfig   `json:"redis" yaml:"redis"`
	S3         S3Config      `json:"s3" yaml:"s3"`
	MySQL      MySQLConfig   `json:"mysql" yaml:"mysql"`
}

type S3Config struct {
	Bucket       string `json:"bucket" yaml:"bucket"`
	Prefix       string `json:"prefix" yaml:"prefix"`
	Region       string `json:"region" yaml:"region"`
	Endpoint     string `json:"endpoint" yaml:"endpoint"` // e.g. a local minio
	UsePathStyle bool   `json:"usePathStyle" yaml:"usePathStyle"`
}

// StubFilesConfig lists stub definition files (doublestar globs) loaded at start.
type StubFilesConfig struct {
	Files []string `json:"files" yaml:"files"`
}

// DefaultStubConfig returns the configuration used when no file is present.
func DefaultStubConfig() *StubConfig {
	return &StubConfig{
		Server: ServerConfig{
			Host:              "127.0.0.1",
			ConnectionFailure: ConnectionFailureFatal,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Fixtures: FixtureConfig{
			Source:     FixtureSourceDir,
			Dir:        "fixtures",
			PoolSize:   8,
			RetryCount: 3,
			RetryDelay: 100 * time.Millisecond,
			Redis: RedisConfig{
				Host:      "localhost",
				Port:      6379,
				PoolSize:  10,
				KeyPrefix: "stub:fixture:",
			},
			MySQL: MySQLConfig{
				Database: DatabaseConfig{Host: "localhost", Port: 3306},
				Options: DatabaseOptionConfig{
					MaxIdleConns:    5,
					MaxOpenConns:    10,
					ConnMaxLifetime: time.Hour,
					LogLevel:        "warn",
					SlowThreshold:   200 * time.Millisecond,
				},
				Table: "stub_fixtures",
			},
		},
	}
}

// LoadStubConfig 加载配置. A missing file at the default location falls back
// to DefaultStubConfig; an explicit STUB_CONFIG_PATH must exist.
func LoadStubConfig() (*StubConfig, error) {
	path, explicit := getConfigPath()
	config, err := LoadStubConfigFrom(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return DefaultStubConfig(), nil
	}
	return config, err
}

// LoadStubConfigFrom reads path over the defaults and validates the result.
func LoadStubConfigFrom(path string) (*StubConfig, error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseStubConfig(configFile)
}

func ParseStubConfig(data []byte) (*StubConfig, error) {
	config := DefaultStubConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// getConfigPath 获取配置文件路径
func getConfigPath() (string, bool) {
	// 优先使用环境变量
	if path := os.Getenv("STUB_CONFIG_PATH"); path != "" {
		return path, true
	}

	env := os.Getenv("STUB_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("stub.%s.yaml", env), false
}

// Validate exposes validate for callers that patch the config after loading,
// e.g. CLI flag overrides.
func (c *StubConfig) Validate() error {
	return c.validate()
}

func (c *StubConfig) validate() error {
	server := c.Server
	if server.Port < 0 || server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", server.Port)
	}
	switch server.ConnectionFailure {
	case ConnectionFailureFatal, ConnectionFailureDrop:
	default:
		return fmt.Errorf("unknown connectionFailure policy %q", server.ConnectionFailure)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	fixtures := c.Fixtures
	if fixtures.PoolSize <= 0 {
		return fmt.Errorf("fixtures poolSize must be positive")
	}
	if fixtures.RetryCount <= 0 {
		return fmt.Errorf("fixtures retryCount must be positive")
	}
	switch fixtures.Source {
	case FixtureSourceDir:
		if fixtures.Dir == "" {
			return fmt.Errorf("fixtures dir is required")
		}
	case FixtureSourceRedis:
		if fixtures.Redis.Host == "" || fixtures.Redis.Port == 0 {
			return fmt.Errorf("fixtures redis host and port are required")
		}
	case FixtureSourceS3:
		if fixtures.S3.Bucket == "" {
			return fmt.Errorf("fixtures s3 bucket is required")
		}
	case FixtureSourceMySQL:
		if err := fixtures.MySQL.validate(); err != nil {
			return fmt.Errorf("fixtures mysql: %w", err)
		}
	default:
		return fmt.Errorf("unknown fixtures source %q", fixtures.Source)
	}

	return nil
}
