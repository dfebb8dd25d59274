package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values. Everything here is read-only after
// LoadConfig returns.
type Config struct {
	AppPort      string `mapstructure:"APP_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	Env          string `mapstructure:"ENV"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	Timezone     string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB  int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderDB int    `mapstructure:"REDIS_REMINDER_DB"`

	// Consultation slot grid.
	DayStart      string `mapstructure:"DAY_START"`
	DayEnd        string `mapstructure:"DAY_END"`
	LunchStart    string `mapstructure:"LUNCH_START"`
	LunchEnd      string `mapstructure:"LUNCH_END"`
	SlotStepMin   int    `mapstructure:"SLOT_STEP_MIN"`
	WorkDaysAhead int    `mapstructure:"WORK_DAYS_AHEAD"`

	// Retrieval scoring. The threshold and weights were tuned against the
	// live FAQ corpus; keep them configurable instead of re-deriving.
	FAQThreshold   float64 `mapstructure:"FAQ_THRESHOLD"`
	FAQTagWeight   float64 `mapstructure:"FAQ_TAG_WEIGHT"`
	KBTokenWeight  float64 `mapstructure:"KB_TOKEN_WEIGHT"`
	KBTopK         int     `mapstructure:"KB_TOP_K"`
	KBTextLimit    int     `mapstructure:"KB_TEXT_LIMIT"`
	KBSimilarLimit int     `mapstructure:"KB_SIMILAR_LIMIT"`

	// Generative fallback.
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	AIContextMode    string `mapstructure:"AI_CONTEXT_MODE"` // all | topk | none
	AITimeoutSec     int    `mapstructure:"AI_TIMEOUT_SEC"`
	DialogHistoryLen int    `mapstructure:"DIALOG_HISTORY_LEN"`

	// Intake session lifetime; an expired session counts as abandonment.
	SessionTTLMin int `mapstructure:"SESSION_TTL_MIN"`

	// Reminder lead time before a consultation, in minutes.
	ReminderLeadMin int `mapstructure:"REMINDER_LEAD_MIN"`

	// Comma-separated user IDs allowed to call admin endpoints.
	AdminIDs string `mapstructure:"ADMIN_IDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TIMEZONE", "Asia/Almaty")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "admissions")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_REMINDER_DB", 1)
	viper.SetDefault("DAY_START", "10:00")
	viper.SetDefault("DAY_END", "18:00")
	viper.SetDefault("LUNCH_START", "13:00")
	viper.SetDefault("LUNCH_END", "14:00")
	viper.SetDefault("SLOT_STEP_MIN", 30)
	viper.SetDefault("WORK_DAYS_AHEAD", 14)
	viper.SetDefault("FAQ_THRESHOLD", 0.9)
	viper.SetDefault("FAQ_TAG_WEIGHT", 2.0)
	viper.SetDefault("KB_TOKEN_WEIGHT", 1.5)
	viper.SetDefault("KB_TOP_K", 8)
	viper.SetDefault("KB_TEXT_LIMIT", 1500)
	viper.SetDefault("KB_SIMILAR_LIMIT", 1000)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("AI_CONTEXT_MODE", "topk")
	viper.SetDefault("AI_TIMEOUT_SEC", 20)
	viper.SetDefault("DIALOG_HISTORY_LEN", 6)
	viper.SetDefault("SESSION_TTL_MIN", 30)
	viper.SetDefault("REMINDER_LEAD_MIN", 60)
	viper.SetDefault("ADMIN_IDS", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AdminIDList splits the configured admin allow-list.
func AdminIDList() []string {
	raw := strings.Split(AppConfig.AdminIDs, ",")
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
