package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LLMConfig struct {
	// Provider selects the completion backend: "openai" (default) or "gemini".
	Provider     string  `mapstructure:"provider"`
	Model        string  `mapstructure:"model"`
	OpenAIAPIKey string  `mapstructure:"open_ai_api_key"`
	GeminiAPIKey string  `mapstructure:"gemini_api_key"`
	Temperature  float64 `mapstructure:"temperature"`
}

type LiveKitConfig struct {
	URL           string `mapstructure:"url"`
	APIKey        string `mapstructure:"api_key"`
	APISecret     string `mapstructure:"api_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

type CalendarConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	CalendarID      string `mapstructure:"calendar_id"`
	TimeZone        string `mapstructure:"time_zone"`
}

// DemoConfig carries the canned inputs the demo runs on. The complaint
// narrative and booking address are placeholders standing in for real user
// input; they are overridable here but nothing validates them as such.
type DemoConfig struct {
	BusinessType  string `mapstructure:"business_type"`
	Location      string `mapstructure:"location"`
	Complaint     string `mapstructure:"complaint"`
	Address       string `mapstructure:"address"`
	Service       string `mapstructure:"service"`
	KnowledgeFile string `mapstructure:"knowledge_file"`
}

type Settings struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	LiveKit  LiveKitConfig  `mapstructure:"livekit"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Demo     DemoConfig     `mapstructure:"demo"`
	Env      string         `mapstructure:"env"`
	Debug    bool           `mapstructure:"debug" default:"false"`
}

const defaultComplaint = `Called for emergency plumbing at 8am. They said 30 minutes.
Waited 3 HOURS. Basement flooding. When he showed up, rude and
quoted $800 just to look. Tried upselling $5000 pipe replacement!`

func Load() (*Settings, error) {
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &settings, nil
}

func setDefaults() {
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4")
	viper.SetDefault("llm.temperature", 0.7)
	// Deliberately long relative to a short demo call so stale browser tabs
	// can still reconnect.
	viper.SetDefault("livekit.token_ttl_hours", 24)
	viper.SetDefault("calendar.time_zone", "Europe/London")
	viper.SetDefault("demo.business_type", "plumbing")
	viper.SetDefault("demo.location", "London")
	viper.SetDefault("demo.complaint", defaultComplaint)
	viper.SetDefault("demo.address", "1 Example St, London")
	viper.SetDefault("demo.service", "Plumbing")
	viper.SetDefault("demo.knowledge_file", "company_rag.json")
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
