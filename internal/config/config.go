package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration. All recognized options are
// enumerated here and resolved once at start-up; components receive the
// values they need instead of reading ambient state.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	DatabaseURL string

	// Lead submission API used by the intake wizard. When disabled the
	// wizard writes straight to the local repository.
	LeadAPIEnabled bool
	LeadAPIBase    string
	LeadAPITimeout time.Duration

	// Chat destinations that receive lead cards and escalation alerts.
	AdminChatID    string
	ManagerChatIDs string

	// Generative reply provider.
	AssistantEnabled      bool
	OpenAIAPIKey          string
	OpenAIModel           string
	OpenAIBaseURL         string
	AssistantMaxTokens    int
	AssistantTimeout      time.Duration
	AssistantHistorySize  int
	AssistantHistoryChars int

	// Business rules.
	SalesMaxDiscountPct int

	// Passive lead capture thresholds.
	AutoCaptureEnabled           bool
	AutoCaptureMinMessages       int
	AutoCaptureMinDetailsChars   int
	FollowUpDetailsAfterMessages int

	// Dispatcher worker pool.
	WorkerCount int
	QueueBuffer int

	// HTTP surface.
	AdminAuthSecret    string
	CORSAllowedOrigins string
	TurnRatePerSec     float64
	TurnBurst          int

	// Optional email copy of manager notifications.
	SendGridAPIKey        string
	SendGridFromEmail     string
	SendGridFromName      string
	NotifyEmailRecipients string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		LeadAPIEnabled: getEnvAsBool("LEAD_API_ENABLED", false),
		LeadAPIBase:    getEnv("LEAD_API_BASE", "http://127.0.0.1:8080"),
		LeadAPITimeout: getEnvAsDuration("LEAD_API_TIMEOUT", 7*time.Second),

		AdminChatID:    getEnv("ADMIN_CHAT_ID", ""),
		ManagerChatIDs: getEnv("MANAGER_CHAT_IDS", ""),

		AssistantEnabled:      getEnvAsBool("ASSISTANT_ENABLED", true),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		AssistantMaxTokens:    getEnvAsInt("ASSISTANT_MAX_TOKENS", 350),
		AssistantTimeout:      getEnvAsDuration("ASSISTANT_TIMEOUT", 8*time.Second),
		AssistantHistorySize:  getEnvAsInt("ASSISTANT_HISTORY_MESSAGES", 10),
		AssistantHistoryChars: getEnvAsInt("ASSISTANT_MAX_HISTORY_CHARS", 6000),

		SalesMaxDiscountPct: getEnvAsInt("SALES_MAX_DISCOUNT_PCT", 15),

		AutoCaptureEnabled:           getEnvAsBool("AUTO_LEAD_CAPTURE_ENABLED", true),
		AutoCaptureMinMessages:       getEnvAsInt("AUTO_LEAD_MIN_MESSAGES", 3),
		AutoCaptureMinDetailsChars:   getEnvAsInt("AUTO_LEAD_MIN_DETAILS_CHARS", 60),
		FollowUpDetailsAfterMessages: getEnvAsInt("LEAD_FOLLOW_UP_DETAILS_AFTER_MESSAGES", 6),

		WorkerCount: getEnvAsInt("WORKER_COUNT", 2),
		QueueBuffer: getEnvAsInt("QUEUE_BUFFER", 128),

		AdminAuthSecret:    getEnv("ADMIN_AUTH_SECRET", ""),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		TurnRatePerSec:     getEnvAsFloat("TURN_RATE_PER_SEC", 5),
		TurnBurst:          getEnvAsInt("TURN_BURST", 10),

		SendGridAPIKey:        getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:     getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:      getEnv("SENDGRID_FROM_NAME", "NorthStack AI"),
		NotifyEmailRecipients: getEnv("NOTIFY_EMAIL_RECIPIENTS", ""),
	}
}

// NotificationChatIDs returns the deduplicated list of chat destinations for
// manager notifications. The admin chat, when set, always comes first.
func (c *Config) NotificationChatIDs() []string {
	var ids []string
	if strings.TrimSpace(c.AdminChatID) != "" {
		ids = append(ids, strings.TrimSpace(c.AdminChatID))
	}

	raw := strings.ReplaceAll(c.ManagerChatIDs, ";", ",")
	for _, part := range strings.Split(raw, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		seen := false
		for _, id := range ids {
			if id == token {
				seen = true
				break
			}
		}
		if !seen {
			ids = append(ids, token)
		}
	}
	return ids
}

// CORSOrigins parses the comma-separated allowed-origin list.
func (c *Config) CORSOrigins() []string {
	var out []string
	for _, part := range strings.Split(c.CORSAllowedOrigins, ",") {
		origin := strings.TrimSpace(part)
		if origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// EmailRecipients parses the comma-separated notification email list.
func (c *Config) EmailRecipients() []string {
	var out []string
	for _, part := range strings.Split(c.NotifyEmailRecipients, ",") {
		addr := strings.TrimSpace(part)
		if addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
