// Package config предоставляет функции для работы с конфигурацией приложения
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config основная структура конфигурации приложения
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Auth     AuthConfig     `yaml:"auth"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Reports  ReportsConfig  `yaml:"reports"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig конфигурация серверов
type ServerConfig struct {
	Port     int `yaml:"port"`
	GRPCPort int `yaml:"grpc_port"`
}

// SheetsConfig конфигурация табличного хранилища
type SheetsConfig struct {
	// Backend: "gsheetapi" (Google Sheets API) или "csvdir" (каталог CSV файлов)
	Backend         string        `yaml:"backend"`
	SpreadsheetID   string        `yaml:"spreadsheet_id"`
	CredentialsFile string        `yaml:"credentials_file"`
	CSVDir          string        `yaml:"csv_dir"`
	Timeout         time.Duration `yaml:"timeout"`
}

// AuthConfig конфигурация проверки домена и сессий
type AuthConfig struct {
	EmailDomain   string        `yaml:"email_domain"`
	SessionMaxAge time.Duration `yaml:"session_max_age"`
}

// SessionConfig выбор хранилища сессий: memory, redis или postgres
type SessionConfig struct {
	Driver string `yaml:"driver"`
}

// DatabaseConfig конфигурация базы данных (хранилище сессий postgres)
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig конфигурация Redis
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig конфигурация JWT поставщика идентичности
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Issuer     string        `yaml:"issuer"`
	Expiration time.Duration `yaml:"expiration"`
}

// ReportsConfig конфигурация отчетов
type ReportsConfig struct {
	// Timezone используется для подсчета "сегодняшних" попыток и разбора старых меток времени
	Timezone                     string `yaml:"timezone"`
	ScopeTeacherProgressToRoster bool   `yaml:"scope_teacher_progress_to_roster"`
}

// JobsConfig конфигурация фоновых задач
type JobsConfig struct {
	SessionPurgeCron string `yaml:"session_purge_cron"`
}

// LogConfig конфигурация логирования
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// GetDSN формирует строку подключения к PostgreSQL
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LoadConfig загружает конфигурацию из YAML файла, .env и переменных окружения.
// Отсутствие файла конфигурации не считается ошибкой.
func LoadConfig(filename string) (*Config, error) {
	cfg := &Config{}

	file, err := os.Open(filename)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config file %s: %w", filename, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to open config file %s: %w", filename, err)
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv загружает переменные из файла, не переопределяя уже заданные.
// Отсутствие файла не считается ошибкой.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Sheets.SpreadsheetID, "SPREADSHEET_ID")
	setString(&c.Sheets.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	setString(&c.Sheets.Backend, "SHEETS_BACKEND")
	setString(&c.Sheets.CSVDir, "SHEETS_CSV_DIR")
	setString(&c.Auth.EmailDomain, "EMAIL_DOMAIN")
	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.Session.Driver, "SESSION_DRIVER")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Reports.Timezone, "REPORTS_TIMEZONE")

	if err := setInt(&c.Server.Port, "HTTP_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Server.GRPCPort, "GRPC_PORT"); err != nil {
		return err
	}
	if val := os.Getenv("SESSION_MAX_AGE"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
		}
		c.Auth.SessionMaxAge = d
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9090
	}
	if c.Sheets.Backend == "" {
		c.Sheets.Backend = "gsheetapi"
	}
	if c.Sheets.Timeout == 0 {
		c.Sheets.Timeout = 30 * time.Second
	}
	if c.Auth.EmailDomain == "" {
		c.Auth.EmailDomain = "@orono.k12.mn.us"
	}
	if c.Auth.SessionMaxAge == 0 {
		c.Auth.SessionMaxAge = 24 * time.Hour
	}
	if c.Session.Driver == "" {
		c.Session.Driver = "memory"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "grammar-practice"
	}
	if c.JWT.Expiration == 0 {
		c.JWT.Expiration = time.Hour
	}
	if c.Jobs.SessionPurgeCron == "" {
		c.Jobs.SessionPurgeCron = "@hourly"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate проверяет значения перечислений.
// Пустой spreadsheet_id допустим: операции вернут ошибку конфигурации.
func (c *Config) Validate() error {
	switch c.Sheets.Backend {
	case "gsheetapi":
	case "csvdir":
		if c.Sheets.CSVDir == "" {
			return fmt.Errorf("sheets.csv_dir is required for the csvdir backend")
		}
	default:
		return fmt.Errorf("unknown sheets backend %q", c.Sheets.Backend)
	}

	switch c.Session.Driver {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis session driver")
		}
	case "postgres":
	default:
		return fmt.Errorf("unknown session driver %q", c.Session.Driver)
	}

	if c.Reports.Timezone != "" {
		if _, err := time.LoadLocation(c.Reports.Timezone); err != nil {
			return fmt.Errorf("invalid reports.timezone: %w", err)
		}
	}
	return nil
}

// Location возвращает часовой пояс отчетов (по умолчанию локальный).
func (c *Config) Location() *time.Location {
	if c.Reports.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Reports.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
