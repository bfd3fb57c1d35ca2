package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/jobdesc"
	"github.com/spigell/talent-scout/internal/llamacloud"
	"github.com/spigell/talent-scout/internal/logger"
)

const (
	PromptShowCandidates = "Show candidates"
	PromptDumpToFile     = "Dump candidates to file"
	PromptExit           = "Exit"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the resume index from the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("required", "r", "", "comma-separated required qualifications")
	searchCmd.Flags().StringP("preferred", "p", "", "comma-separated preferred qualifications")
	searchCmd.Flags().IntP("top-k", "k", 10, "number of candidates to retrieve (1..50)")
	searchCmd.Flags().Bool("no-rerank", false, "disable the re-ranking pass")
}

// search runs one retrieval against the index and lets the operator inspect
// the result interactively.
func search(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	required, _ := cmd.Flags().GetString("required")
	preferred, _ := cmd.Flags().GetString("preferred")
	topK, _ := cmd.Flags().GetInt("top-k")
	noRerank, _ := cmd.Flags().GetBool("no-rerank")

	requiredList := jobdesc.SplitCommaList(required)
	preferredList := jobdesc.SplitCommaList(preferred)

	if len(requiredList) == 0 {
		logger.Fatal("at least one required qualification is needed", zap.String("hint", "pass --required \"Python, SQL\""))
	}

	if topK < 1 || topK > 50 {
		logger.Fatal("top-k must be between 1 and 50", zap.Int("top-k", topK))
	}

	retriever, err := newRetriever(config.LlamaCloud, logger)
	if err != nil {
		logger.Fatal("building the retriever", zap.Error(err))
	}

	logger.Info("starting the search",
		zap.Strings("required", requiredList),
		zap.Strings("preferred", preferredList),
	)

	candidates, err := retriever.RetrieveByQualifications(ctx, requiredList, preferredList, topK, !noRerank)
	if err != nil {
		logger.Fatal("retrieving candidates", zap.Error(err))
	}

	if len(candidates) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates found"))
		return
	}

	prompt := promptui.Select{
		Label: fmt.Sprintf("Found %d candidates. Proceed?", len(candidates)),
		Items: []string{PromptShowCandidates, PromptDumpToFile, PromptExit},
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		switch action {
		case PromptShowCandidates:
			pretty, _ := json.MarshalIndent(candidates, "", "  ")
			fmt.Println(string(pretty))
		case PromptDumpToFile:
			filename, err := dumpToTmpFile(candidates)
			if err != nil {
				logger.Fatal("dumping candidates to file", zap.Error(err))
			}
			logger.Info("dumped candidates to file", zap.String("filename", filename))
		case PromptExit:
			return
		}
	}
}

func dumpToTmpFile(candidates []*llamacloud.CandidateMatch) (string, error) {
	file, err := os.CreateTemp("", app+"-candidates-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(candidates); err != nil {
		return "", err
	}

	return file.Name(), nil
}
