package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// 저장소 백엔드 이름
const (
	StorageFirestore = "firestore"
	StorageRedis     = "redis"
	StorageMemory    = "memory"
)

// Config 애플리케이션의 전체 설정을 관리합니다
type Config struct {
	Discord   DiscordConfig
	Storage   StorageConfig
	Lounge    LoungeConfig
	Sheets    SheetsConfig
	Logging   LoggingConfig
	Features  FeatureFlags
	Telemetry TelemetryConfig
	Schedule  ScheduleConfig
	HTTP      HTTPConfig
}

type DiscordConfig struct {
	Token           string   `env:"DISCORD_BOT_TOKEN"`
	BotIDs          []string `env:"BOT_IDS" envSeparator:","`
	DefaultLanguage string   `env:"DEFAULT_LANGUAGE" envDefault:"en"`
}

type StorageConfig struct {
	Backend                 string `env:"STORAGE_BACKEND" envDefault:"memory"`
	FirebaseCredentialsJSON string `env:"FIREBASE_CREDENTIALS_JSON"`
	RedisAddr               string `env:"REDIS_ADDR"`
	RedisPassword           string `env:"REDIS_PASSWORD"`
	RedisDB                 int    `env:"REDIS_DB" envDefault:"0"`
}

type LoungeConfig struct {
	BaseURL       string  `env:"LOUNGE_BASE_URL" envDefault:"https://www.mk8dx-lounge.com/api"`
	RatePerSecond float64 `env:"LOUNGE_RATE_PER_SECOND" envDefault:"5"`
}

type SheetsConfig struct {
	SpreadsheetID   string `env:"SPREADSHEET_ID"`
	CredentialsJSON string `env:"GOOGLE_CREDENTIALS_JSON"`
}

type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"INFO"`
	JSON  bool   `env:"LOG_JSON" envDefault:"false"`
}

type FeatureFlags struct {
	MogiLookback time.Duration `env:"MOGI_LOOKBACK" envDefault:"1h"`
}

type TelemetryConfig struct {
	Enabled   bool   `env:"TELEMETRY_ENABLED" envDefault:"false"`
	ProjectID string `env:"GOOGLE_CLOUD_PROJECT"`
}

type ScheduleConfig struct {
	ResetEnabled bool `env:"HANDSUP_RESET_ENABLED" envDefault:"false"`
	ResetHour    int  `env:"HANDSUP_RESET_HOUR" envDefault:"5"`
	ResetMinute  int  `env:"HANDSUP_RESET_MINUTE" envDefault:"0"`
}

type HTTPConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
}

// Load는 .env 파일(있다면)과 환경변수에서 설정을 로드합니다
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigError{Field: ".env", Message: err.Error()}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, &ConfigError{Field: "env", Message: err.Error()}
	}

	// 시트 자격증명이 없으면 Firebase 자격증명을 사용
	if cfg.Sheets.CredentialsJSON == "" {
		cfg.Sheets.CredentialsJSON = cfg.Storage.FirebaseCredentialsJSON
	}
	return cfg, nil
}

// Validate 설정의 유효성을 검사합니다
func (c *Config) Validate() error {
	// Discord 설정 검증
	if c.Discord.Token == "" {
		return &ConfigError{
			Field:   "Discord.Token",
			Message: "Discord bot token is required",
		}
	}

	if _, ok := parseLanguage(c.Discord.DefaultLanguage); !ok {
		return &ConfigError{
			Field:   "Discord.DefaultLanguage",
			Message: "DEFAULT_LANGUAGE must be one of: en, ja (got: " + c.Discord.DefaultLanguage + ")",
		}
	}

	// 로그 레벨 검증
	validLogLevels := map[string]bool{
		constants.LogLevelDebug: true,
		constants.LogLevelInfo:  true,
		constants.LogLevelWarn:  true,
		constants.LogLevelError: true,
	}
	if !validLogLevels[strings.ToUpper(c.Logging.Level)] {
		return &ConfigError{
			Field:   "Logging.Level",
			Message: "LOG_LEVEL must be one of: DEBUG, INFO, WARN, ERROR (got: " + c.Logging.Level + ")",
		}
	}

	switch c.Storage.Backend {
	case StorageMemory:
	case StorageFirestore:
		if c.Storage.FirebaseCredentialsJSON == "" {
			return &ConfigError{
				Field:   "Storage.FirebaseCredentialsJSON",
				Message: "FIREBASE_CREDENTIALS_JSON is required for the firestore backend",
			}
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return &ConfigError{
				Field:   "Storage.RedisAddr",
				Message: "REDIS_ADDR is required for the redis backend",
			}
		}
	default:
		return &ConfigError{
			Field:   "Storage.Backend",
			Message: "STORAGE_BACKEND must be one of: firestore, redis, memory (got: " + c.Storage.Backend + ")",
		}
	}

	if c.Lounge.RatePerSecond <= 0 {
		return &ConfigError{
			Field:   "Lounge.RatePerSecond",
			Message: "LOUNGE_RATE_PER_SECOND must be positive",
		}
	}

	if c.Features.MogiLookback <= 0 {
		return &ConfigError{
			Field:   "Features.MogiLookback",
			Message: "MOGI_LOOKBACK must be positive",
		}
	}

	// 스케줄 설정 검증 (활성화된 경우에만)
	if c.Schedule.ResetEnabled {
		if c.Schedule.ResetHour < 0 || c.Schedule.ResetHour > 23 {
			return &ConfigError{
				Field:   "Schedule.ResetHour",
				Message: "HANDSUP_RESET_HOUR must be between 0 and 23 (got: " + strconv.Itoa(c.Schedule.ResetHour) + ")",
			}
		}

		if c.Schedule.ResetMinute < 0 || c.Schedule.ResetMinute > 59 {
			return &ConfigError{
				Field:   "Schedule.ResetMinute",
				Message: "HANDSUP_RESET_MINUTE must be between 0 and 59 (got: " + strconv.Itoa(c.Schedule.ResetMinute) + ")",
			}
		}
	}

	return nil
}

// Language 기본 언어 설정을 반환합니다
func (c *Config) Language() constants.Lang {
	lang, _ := parseLanguage(c.Discord.DefaultLanguage)
	return lang
}

// IsDebugMode 디버그 모드 여부를 반환합니다
func (c *Config) IsDebugMode() bool {
	return strings.ToUpper(c.Logging.Level) == constants.LogLevelDebug
}

// SheetsEnabled 스프레드시트 연동이 설정되어 있는지 확인합니다
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsJSON != ""
}

func parseLanguage(s string) (constants.Lang, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en":
		return constants.LangEN, true
	case "ja":
		return constants.LangJA, true
	default:
		return constants.LangEN, false
	}
}

// ConfigError 설정 관련 오류를 나타냅니다
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in " + e.Field + ": " + e.Message
}
