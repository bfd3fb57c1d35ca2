package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/ai/gemini"
	"github.com/spigell/talent-scout/internal/ai/openai"
	"github.com/spigell/talent-scout/internal/llamacloud"
	"github.com/spigell/talent-scout/internal/logger"
	"github.com/spigell/talent-scout/internal/secrets"
	"github.com/spigell/talent-scout/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the talent-scout MCP server",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("stdio", false, "serve over stdio instead of streamable HTTP")
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talent-scout server", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	deps := buildDeps(ctx, config, logger)

	srv, err := server.NewServer(deps)
	if err != nil {
		logger.Fatal("creating the mcp server", zap.Error(err))
	}

	if stdio, _ := cmd.Flags().GetBool("stdio"); stdio {
		logger.Info("serving over stdio")
		if err := srv.Run(ctx); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
		return
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	if err := srv.RunHTTP(ctx, addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// buildDeps constructs the tool capabilities. A capability whose
// configuration is missing or broken is disabled with a warning instead of
// stopping the whole server.
func buildDeps(ctx context.Context, config *Config, logger *zap.Logger) *server.Deps {
	deps := &server.Deps{Logger: logger}

	retriever, err := newRetriever(config.LlamaCloud, logger)
	if err != nil {
		logger.Warn("candidate retrieval tools disabled", zap.Error(err))
	} else {
		deps.Retriever = retriever
	}

	assistant, err := newAssistant(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("ai tools disabled", zap.Error(err))
	} else {
		deps.Extractor = assistant
		deps.Scorer = assistant
	}

	return deps
}

func newRetriever(config *LlamaCloudConfig, logger *zap.Logger) (*llamacloud.Retriever, error) {
	if config == nil {
		return nil, fmt.Errorf("llamacloud configuration is required")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "llamacloud api key",
		Value: config.APIKey,
		File:  config.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set LLAMA_CLOUD_API_KEY or llamacloud.api-key-file)", err)
	}

	client, err := llamacloud.NewClient(&llamacloud.Config{
		APIKey:         apiKey,
		IndexName:      config.IndexName,
		ProjectName:    config.ProjectName,
		OrganizationID: config.OrganizationID,
	}, logger)
	if err != nil {
		return nil, err
	}

	return llamacloud.NewRetriever(client, logger), nil
}

func newAssistant(ctx context.Context, config *AIConfig, logger *zap.Logger) (*ai.Assistant, error) {
	if config == nil {
		return nil, fmt.Errorf("ai configuration is required")
	}

	generator, err := newGenerator(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	return ai.NewAssistant(generator, logger, 0), nil
}

func newGenerator(ctx context.Context, config *AIConfig, logger *zap.Logger) (ai.ContentGenerator, error) {
	provider := strings.TrimSpace(strings.ToLower(config.Provider))

	switch provider {
	case "", "openai":
		if config.OpenAI == nil {
			config.OpenAI = &OpenAIConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: config.OpenAI.APIKey,
			File:  config.OpenAI.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set OPENAI_API_KEY or ai.openai.api-key-file)", err)
		}

		return openai.NewGenerator(&openai.Config{
			APIKey:      apiKey,
			Model:       config.OpenAI.Model,
			Temperature: config.OpenAI.Temperature,
			Timeout:     time.Duration(config.OpenAI.RequestTimeoutSeconds * float64(time.Second)),
		}, logger)
	case "gemini":
		if config.Gemini == nil {
			return nil, fmt.Errorf("gemini configuration is required when the gemini provider is selected")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: config.Gemini.APIKey,
			File:  config.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set GEMINI_API_KEY or ai.gemini.api-key-file)", err)
		}

		return gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, logger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}
}
