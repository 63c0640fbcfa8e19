package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var (
	// ErrReadConfig возвращается, когда не удалось прочитать или разобрать файл конфигурации
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrInvalidConfig возвращается, когда конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Parking  ParkingConfig  `toml:"parking"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | memory
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки проверки JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// ParkingConfig параметры парковки
type ParkingConfig struct {
	LowWaitMinutes            int     `toml:"low_wait_minutes"`
	HighWaitMinutes           int     `toml:"high_wait_minutes"`
	OccupancyThresholdPercent float64 `toml:"occupancy_threshold_percent"`
	SweepSchedule             string  `toml:"sweep_schedule"` // пусто = только очистка по запросу
	SeedTotalSlots            int     `toml:"seed_total_slots"`
	SeedReservedSlots         int     `toml:"seed_reserved_slots"`
	SeedSlotPrefix            string  `toml:"seed_slot_prefix"`
}

// WaitPolicy политика ожидания занятия места
func (c ParkingConfig) WaitPolicy() domain.WaitPolicy {
	return domain.NewWaitPolicy(c.LowWaitMinutes, c.HighWaitMinutes, c.OccupancyThresholdPercent)
}

// Load загружает конфигурацию: .env (если есть), затем TOML файл, затем
// переменные окружения, затем значения по умолчанию и валидация
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет значения из переменных окружения
func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("DB_DRIVER"); ok {
		c.Database.Driver = v
	}
	if v, ok := lookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := lookupEnv("JWT_SECRET"); ok {
		c.Auth.JWTSecret = v
	}
	// Пустое значение допустимо: отключает периодическую очистку
	if v, ok := os.LookupEnv("SWEEP_SCHEDULE"); ok {
		c.Parking.SweepSchedule = strings.TrimSpace(v)
	}

	if err := envInt("LOW_WAIT_MINUTES", &c.Parking.LowWaitMinutes); err != nil {
		return err
	}
	if err := envInt("HIGH_WAIT_MINUTES", &c.Parking.HighWaitMinutes); err != nil {
		return err
	}
	if v, ok := lookupEnv("OCCUPANCY_THRESHOLD_PERCENT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: OCCUPANCY_THRESHOLD_PERCENT=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Parking.OccupancyThresholdPercent = f
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "parking-service"
	}

	if c.Parking.LowWaitMinutes == 0 {
		c.Parking.LowWaitMinutes = domain.DefaultLowWaitMinutes
	}
	if c.Parking.HighWaitMinutes == 0 {
		c.Parking.HighWaitMinutes = domain.DefaultHighWaitMinutes
	}
	if c.Parking.OccupancyThresholdPercent == 0 {
		c.Parking.OccupancyThresholdPercent = domain.DefaultOccupancyThresholdPercent
	}
	if c.Parking.SeedTotalSlots == 0 {
		c.Parking.SeedTotalSlots = domain.DefaultSeedTotalSlots
		if c.Parking.SeedReservedSlots == 0 {
			c.Parking.SeedReservedSlots = domain.DefaultSeedReservedSlots
		}
	}
	if c.Parking.SeedSlotPrefix == "" {
		c.Parking.SeedSlotPrefix = domain.DefaultSeedSlotPrefix
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverMemory {
		problems = append(problems, fmt.Sprintf("database.driver must be %q or %q", DriverPostgres, DriverMemory))
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret is required")
	}
	if c.Parking.LowWaitMinutes <= 0 || c.Parking.HighWaitMinutes <= 0 {
		problems = append(problems, "parking wait minutes must be positive")
	}
	if c.Parking.OccupancyThresholdPercent <= 0 || c.Parking.OccupancyThresholdPercent > 100 {
		problems = append(problems, "parking.occupancy_threshold_percent must be in (0, 100]")
	}
	if c.Parking.SeedReservedSlots < 0 || c.Parking.SeedReservedSlots > c.Parking.SeedTotalSlots {
		problems = append(problems, "parking.seed_reserved_slots must be between 0 and seed_total_slots")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envInt(key string, dst *int) error {
	v, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
	*dst = n
	return nil
}
