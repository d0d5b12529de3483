
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"qamaster-server/models"
)

// Config holds all application configuration
type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	GinMode         string        `mapstructure:"GIN_MODE"`
	QuestionsURL    string        `mapstructure:"QUESTIONS_URL"`
	AllowListURL    string        `mapstructure:"ALLOWLIST_URL"`
	RefreshInterval time.Duration `mapstructure:"REFRESH_INTERVAL"`
	FetchTimeout    time.Duration `mapstructure:"FETCH_TIMEOUT"`
	ColumnsPath     string        `mapstructure:"COLUMNS_PATH"`
	Exam            ExamConfig    `mapstructure:"EXAM"`
	Auth            AuthConfig    `mapstructure:"AUTH"`
}

// ExamConfig holds the mock-exam parameters
type ExamConfig struct {
	QuestionCount int `mapstructure:"QUESTION_COUNT"`
	TimeSeconds   int `mapstructure:"TIME_SECONDS"`
}

// AuthConfig holds session-token configuration
type AuthConfig struct {
	JWTSigningKey string        `mapstructure:"JWT_SIGNING_KEY"`
	Issuer        string        `mapstructure:"ISSUER"`
	TokenTTL      time.Duration `mapstructure:"TOKEN_TTL"`
}

// LoadConfig loads configuration from environment variables and config.yaml
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config") // config.yaml
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	// Set defaults
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("QUESTIONS_URL", "")
	viper.SetDefault("ALLOWLIST_URL", "")
	viper.SetDefault("REFRESH_INTERVAL", "5m")
	viper.SetDefault("FETCH_TIMEOUT", "15s")
	viper.SetDefault("COLUMNS_PATH", "./columns.yaml")
	viper.SetDefault("EXAM.QUESTION_COUNT", 20)
	viper.SetDefault("EXAM.TIME_SECONDS", 1800)
	viper.SetDefault("AUTH.JWT_SIGNING_KEY", "change-me-in-production")
	viper.SetDefault("AUTH.ISSUER", "qamaster.example.com")
	viper.SetDefault("AUTH.TOKEN_TTL", "12h")
	// Read from config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("config.yaml not found, using environment variables and defaults")
		} else {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}
	// Override with environment variables (e.g., QAMASTER_SERVER_PORT)
	viper.SetEnvPrefix("QAMASTER")
	viper.AutomaticEnv()
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

// LoadColumns reads the column-mapping YAML for the question source. A
// missing file falls back to the default layout; a present but malformed
// one is an error, since silently guessing columns would corrupt every
// parsed question.
func LoadColumns(path string) (models.ColumnMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("%s not found, using default column layout", path)
			return models.DefaultColumnMap(), nil
		}
		return models.ColumnMap{}, fmt.Errorf("failed to read column map %s: %w", path, err)
	}

	var cols models.ColumnMap
	if err := yaml.Unmarshal(data, &cols); err != nil {
		return models.ColumnMap{}, fmt.Errorf("failed to parse column map %s: %w", path, err)
	}
	if len(cols.Options) == 0 {
		return models.ColumnMap{}, fmt.Errorf("column map %s defines no option columns", path)
	}
	return cols, nil
}
