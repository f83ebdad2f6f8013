package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Schedule ScheduleConfig
	Agenda   AgendaConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ShiftWindow is one fixed organization shift parsed from configuration.
type ShiftWindow struct {
	Name  string
	Start string
	End   string
}

// ScheduleConfig describes the daily timeline axis and the organization
// shifts rendered on it.
type ScheduleConfig struct {
	StartHour       int
	EndHour         int
	SlotDuration    int
	SlotHeight      int
	CollapsedHeight int
	Shifts          []ShiftWindow
}

// AgendaConfig tunes the agenda layout cache.
type AgendaConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	schedule := ScheduleConfig{
		StartHour:       v.GetInt("SCHEDULE_START_HOUR"),
		EndHour:         v.GetInt("SCHEDULE_END_HOUR"),
		SlotDuration:    v.GetInt("SCHEDULE_SLOT_MINUTES"),
		SlotHeight:      v.GetInt("SCHEDULE_SLOT_HEIGHT"),
		CollapsedHeight: v.GetInt("SCHEDULE_COLLAPSED_HEIGHT"),
	}
	shifts, err := parseShifts(v.GetString("SCHEDULE_SHIFTS"))
	if err != nil {
		return nil, err
	}
	schedule.Shifts = shifts
	if err := schedule.validate(); err != nil {
		return nil, err
	}
	cfg.Schedule = schedule

	cfg.Agenda = AgendaConfig{
		CacheEnabled: v.GetBool("AGENDA_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("AGENDA_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func (c ScheduleConfig) validate() error {
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("invalid schedule hours %d-%d", c.StartHour, c.EndHour)
	}
	if c.SlotDuration <= 0 || 60%c.SlotDuration != 0 {
		return fmt.Errorf("slot duration %d must evenly divide an hour", c.SlotDuration)
	}
	if c.SlotHeight <= 0 || c.CollapsedHeight <= 0 {
		return fmt.Errorf("slot heights must be positive")
	}
	return nil
}

// parseShifts reads shifts in "NAME=HH:mm-HH:mm" form, comma separated.
func parseShifts(raw string) ([]ShiftWindow, error) {
	parts := splitAndTrim(raw)
	shifts := make([]ShiftWindow, 0, len(parts))
	for _, part := range parts {
		name, window, found := strings.Cut(part, "=")
		if !found {
			return nil, fmt.Errorf("invalid shift %q, expected NAME=HH:mm-HH:mm", part)
		}
		start, end, found := strings.Cut(window, "-")
		if !found {
			return nil, fmt.Errorf("invalid shift window %q, expected HH:mm-HH:mm", window)
		}
		shifts = append(shifts, ShiftWindow{
			Name:  strings.TrimSpace(name),
			Start: strings.TrimSpace(start),
			End:   strings.TrimSpace(end),
		})
	}
	return shifts, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "team_agenda")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULE_START_HOUR", 7)
	v.SetDefault("SCHEDULE_END_HOUR", 23)
	v.SetDefault("SCHEDULE_SLOT_MINUTES", 30)
	v.SetDefault("SCHEDULE_SLOT_HEIGHT", 40)
	v.SetDefault("SCHEDULE_COLLAPSED_HEIGHT", 1)
	v.SetDefault("SCHEDULE_SHIFTS", "TM=08:00-13:00,TV=18:00-22:30")

	v.SetDefault("AGENDA_CACHE_ENABLED", false)
	v.SetDefault("AGENDA_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
