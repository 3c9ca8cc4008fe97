package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// LLMConfig contains all Gemini integration related settings.
//
// GeminiAPIKey carries no `required` tag on purpose: a missing key is not a
// configuration shape error but a credential failure, raised as a
// distinguishable error by the generator constructor before any request is
// attempted.
type LLMConfig struct {
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	ModelName       string `mapstructure:"model_name" validate:"required"`
	MaxSummaryWords int    `mapstructure:"max_summary_words" validate:"gte=0"`
	MinFlashcards   int    `mapstructure:"min_flashcards" validate:"gte=0"`
	MaxFlashcards   int    `mapstructure:"max_flashcards" validate:"gte=0,gtefield=MinFlashcards"`
}
