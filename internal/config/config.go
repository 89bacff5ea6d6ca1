package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads at startup.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
	Speech  SpeechConfig
}

// Load reads the full configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Session: session, Speech: speech}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr      string
	RateRPS   float64
	RateBurst int
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	rps := 10.0
	if override, err := parseOptionalFloatEnv("RATE_LIMIT_RPS"); err != nil {
		return ServerConfig{}, err
	} else if override != nil {
		rps = *override
	}

	burst := 20
	if override, err := parseOptionalIntEnv("RATE_LIMIT_BURST"); err != nil {
		return ServerConfig{}, err
	} else if override != nil {
		burst = *override
	}

	return ServerConfig{Addr: addr, RateRPS: rps, RateBurst: burst}, nil
}

// AIConfig describes the chat model used for response generation and
// LLM-backed emotion classification.
type AIConfig struct {
	APIKey              string
	AccessKey           string
	SecretKey           string
	Model               string
	BaseURL             string
	Region              string
	Temperature         *float64
	TopP                *float64
	MaxTokens           *int
	HistoryLimit        int
	EmotionLLMEnabled   bool
	EmotionHistoryLimit int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from this configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("missing Ark credentials: provide ARK_API_KEY + ARK_MODEL, or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		val := 0.7
		temperature = &val
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}
	if topP == nil {
		val := 0.9
		topP = &val
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}
	if maxTokens == nil {
		// Voice replies stay short; cap the completion accordingly.
		val := 300
		maxTokens = &val
	}

	historyLimit := 10
	if override, err := parseOptionalIntEnv("AI_HISTORY_LIMIT"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		historyLimit = *override
	}

	emotionEnabled, err := parseBoolEnv("AI_EMOTION_LLM_ENABLED", false)
	if err != nil {
		return AIConfig{}, err
	}

	emotionHistory := 6
	if override, err := parseOptionalIntEnv("AI_EMOTION_HISTORY_LIMIT"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			emotionHistory = 1
		} else {
			emotionHistory = *override
		}
	}

	return AIConfig{
		APIKey:              strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:           strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:           strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:               getEnvOrDefault("ARK_MODEL", strings.TrimSpace(os.Getenv("Model"))),
		BaseURL:             getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:              getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:         temperature,
		TopP:                topP,
		MaxTokens:           maxTokens,
		HistoryLimit:        historyLimit,
		EmotionLLMEnabled:   emotionEnabled,
		EmotionHistoryLimit: emotionHistory,
	}, nil
}

// SessionConfig bounds in-memory session state.
type SessionConfig struct {
	PromptHistoryTurns int
	StaleAfter         time.Duration
	SweepInterval      time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	historyTurns := 5
	if override, err := parseOptionalIntEnv("SESSION_PROMPT_HISTORY_TURNS"); err != nil {
		return SessionConfig{}, err
	} else if override != nil && *override > 0 {
		historyTurns = *override
	}

	staleAfter := 30 * time.Minute
	if override, err := parseOptionalIntEnv("SESSION_STALE_MINUTES"); err != nil {
		return SessionConfig{}, err
	} else if override != nil && *override > 0 {
		staleAfter = time.Duration(*override) * time.Minute
	}

	sweepInterval := 5 * time.Minute
	if override, err := parseOptionalIntEnv("SESSION_SWEEP_MINUTES"); err != nil {
		return SessionConfig{}, err
	} else if override != nil && *override > 0 {
		sweepInterval = time.Duration(*override) * time.Minute
	}

	return SessionConfig{
		PromptHistoryTurns: historyTurns,
		StaleAfter:         staleAfter,
		SweepInterval:      sweepInterval,
	}, nil
}

// SpeechConfig describes the two speech backends. OpenAI serves English,
// Sarvam serves Hindi and Hinglish.
type SpeechConfig struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	WhisperModel   string
	OpenAITTSModel string
	OpenAITTSVoice string

	SarvamAPIKey   string
	SarvamBaseURL  string
	SarvamSTTModel string
	SarvamTTSModel string
	SarvamSpeaker  string
	SarvamLangCode string

	Timeout time.Duration
}

// OpenAIEnabled reports whether the English backend is configured.
func (c SpeechConfig) OpenAIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// SarvamEnabled reports whether the Hindi backend is configured.
func (c SpeechConfig) SarvamEnabled() bool {
	return c.SarvamAPIKey != ""
}

func loadSpeechConfig() (SpeechConfig, error) {
	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("SPEECH_TIMEOUT"); err != nil {
		return SpeechConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return SpeechConfig{
		OpenAIAPIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:  getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		WhisperModel:   getEnvOrDefault("OPENAI_WHISPER_MODEL", "whisper-1"),
		OpenAITTSModel: getEnvOrDefault("OPENAI_TTS_MODEL", "tts-1"),
		OpenAITTSVoice: getEnvOrDefault("OPENAI_TTS_VOICE", "alloy"),

		SarvamAPIKey:   strings.TrimSpace(os.Getenv("SARVAM_API_KEY")),
		SarvamBaseURL:  getEnvOrDefault("SARVAM_BASE_URL", "https://api.sarvam.ai"),
		SarvamSTTModel: getEnvOrDefault("SARVAM_STT_MODEL", "saarika:v2"),
		SarvamTTSModel: getEnvOrDefault("SARVAM_TTS_MODEL", "bulbul:v1"),
		SarvamSpeaker:  getEnvOrDefault("SARVAM_TTS_SPEAKER", "meera"),
		SarvamLangCode: getEnvOrDefault("SARVAM_LANGUAGE_CODE", "hi-IN"),

		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
