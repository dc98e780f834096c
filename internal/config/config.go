// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// EnvLocal локальный запуск, подробные логи.
	EnvLocal = "local"
	// EnvDev тестовый стенд.
	EnvDev = "dev"
	// EnvProd боевое окружение.
	EnvProd = "prod"
)

const (
	// DriverPostgres хранилище записей в PostgreSQL.
	DriverPostgres = "postgres"
	// DriverSQLite встроенное хранилище для запуска на одной машине.
	DriverSQLite = "sqlite"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Storage         `yaml:"storage"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	Identity        `yaml:"identity"`
	Inventory       `yaml:"inventory"`
	RateLimit       `yaml:"rate_limit"`
	ReportArchive   `yaml:"report_archive"`
}

// Storage настройки хранилища записей и пользователей
type Storage struct {
	Driver           string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	ConnectionString string `yaml:"connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath   string `yaml:"migrations_path" env-default:"./migrations"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis (отозванные сессии)
type RedisConnection struct {
	RedisAddress     string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	RedisPassword    string        `yaml:"password" env:"REDIS_PASSWORD"`
	RedisUser        string        `yaml:"user"`
	RedisDB          int           `yaml:"db"`
	RedisMaxRetries  int           `yaml:"max_retries"`
	RedisDialTimeout time.Duration `yaml:"dial_timeout"`
	RedisTimeout     time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"12h"`
}

// Identity настройки провайдера идентификации.
// Если GRPCAddress пуст, HTTP-приложение проверяет учетные данные само.
type Identity struct {
	GRPCAddress string        `yaml:"grpc_address" env:"IDENTITY_GRPC_ADDRESS"`
	ListenGRPC  string        `yaml:"listen_grpc" env-default:":50051"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
	CallTimeout time.Duration `yaml:"call_timeout" env-default:"3s"`
}

// Inventory настройки представлений инвентаря
type Inventory struct {
	HorizonDays int `yaml:"horizon_days" env-default:"180"`
}

// RateLimit ограничение частоты запросов к эндпоинтам входа и регистрации
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"5"`
}

// ReportArchive настройки архива отчетов в S3-совместимом хранилище.
// Архив выключен, если бакет не задан.
type ReportArchive struct {
	Bucket          string `yaml:"bucket" env:"REPORT_ARCHIVE_BUCKET"`
	Region          string `yaml:"region" env-default:"us-east-1"`
	Endpoint        string `yaml:"endpoint" env:"REPORT_ARCHIVE_ENDPOINT"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id" env:"REPORT_ARCHIVE_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"REPORT_ARCHIVE_SECRET_ACCESS_KEY"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает YAML-файл, применяет переменные окружения и значения по умолчанию.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if c.ConnectionString == "" {
		return errors.New("storage connection_string is required")
	}
	if c.JWTSecretKey == "" && c.GRPCAddress == "" {
		return errors.New("jwt_secret_key is required when identity is served in-process")
	}
	if c.HorizonDays <= 0 {
		return errors.New("inventory horizon_days must be positive")
	}
	return nil
}

// ArchiveEnabled сообщает, настроен ли архив отчетов.
func (c *Config) ArchiveEnabled() bool {
	return c.Bucket != ""
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Identity:\n"+
			"  GRPCAddress: %s\n"+
			"  ListenGRPC: %s\n"+
			"Inventory:\n"+
			"  HorizonDays: %d\n"+
			"ReportArchive:\n"+
			"  Bucket: %s\n",
		c.Env,
		c.Driver,
		c.MigrationsPath,
		c.RedisAddress,
		c.RedisDB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.GRPCAddress,
		c.ListenGRPC,
		c.HorizonDays,
		c.Bucket,
	)
}
