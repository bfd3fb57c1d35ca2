package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "talent-scout"

	defaultHost      = "0.0.0.0"
	defaultPort      = 8080
	defaultIndexName = "resume_public"
	defaultProject   = "Default"
)

// Config is the full application configuration, sourced from environment
// variables and an optional YAML config file.
type Config struct {
	Host       string            `mapstructure:"host"`
	Port       int               `mapstructure:"port"`
	AI         *AIConfig         `mapstructure:"ai"`
	LlamaCloud *LlamaCloudConfig `mapstructure:"llamacloud"`
}

// AIConfig selects and configures the text-generation provider.
type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

// OpenAIConfig holds settings for the OpenAI provider.
type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	// Temperature is the sampling temperature for completions.
	Temperature float32 `mapstructure:"temperature"`
	// RequestTimeoutSeconds bounds each API call.
	RequestTimeoutSeconds float64 `mapstructure:"request-timeout"`
}

// GeminiConfig holds settings for the Gemini provider.
type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

// LlamaCloudConfig holds credentials and identifiers for the resume index.
type LlamaCloudConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	IndexName      string `mapstructure:"index-name"`
	ProjectName    string `mapstructure:"project-name"`
	OrganizationID string `mapstructure:"organization-id"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talent-scout is an MCP server exposing candidate retrieval and scoring tools over a resume index",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	bindings := map[string]string{
		"host":                       "HOST",
		"port":                       "PORT",
		"llamacloud.api-key":         "LLAMA_CLOUD_API_KEY",
		"llamacloud.api-key-file":    "LLAMA_CLOUD_API_KEY_FILE",
		"llamacloud.index-name":      "LLAMA_CLOUD_INDEX_NAME",
		"llamacloud.project-name":    "LLAMA_CLOUD_PROJECT_NAME",
		"llamacloud.organization-id": "LLAMA_CLOUD_ORGANIZATION_ID",
		"ai.provider":                "AI_PROVIDER",
		"ai.openai.api-key":          "OPENAI_API_KEY",
		"ai.openai.api-key-file":     "OPENAI_API_KEY_FILE",
		"ai.openai.model":            "OPENAI_MODEL",
		"ai.openai.temperature":      "OPENAI_TEMPERATURE",
		"ai.openai.request-timeout":  "REQUEST_TIMEOUT",
		"ai.gemini.api-key":          "GEMINI_API_KEY",
		"ai.gemini.api-key-file":     "GEMINI_API_KEY_FILE",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("host", defaultHost)
	viper.SetDefault("port", defaultPort)
	viper.SetDefault("llamacloud.index-name", defaultIndexName)
	viper.SetDefault("llamacloud.project-name", defaultProject)
	viper.SetDefault("ai.provider", "openai")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talent-scout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// An explicitly requested config file must parse.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// The config file is optional: everything can come from the environment.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	return config, nil
}
