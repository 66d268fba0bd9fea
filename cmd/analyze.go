package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sumedhk0/GitHubAnalyzer/internal/analysis"
	"github.com/sumedhk0/GitHubAnalyzer/internal/github"
	"github.com/sumedhk0/GitHubAnalyzer/internal/llm"
	"github.com/sumedhk0/GitHubAnalyzer/internal/logger"
	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
	"github.com/sumedhk0/GitHubAnalyzer/internal/progress"
	"github.com/sumedhk0/GitHubAnalyzer/internal/secrets"
	"github.com/sumedhk0/GitHubAnalyzer/internal/storage"
)

const (
	PromptUseCached = "Use cached profile"
	PromptReanalyze = "Run a fresh analysis"
)

var cachedPrompt = promptui.Select{
	Label: "A stored profile for this user exists",
	Items: []string{PromptUseCached, PromptReanalyze},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <username>",
	Short: "Analyze a GitHub user's commit history and produce a skill profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("format", "f", "text", "output format (text, markdown, json)")
	analyzeCmd.Flags().StringP("output", "o", "", "output file (defaults to stdout)")
	analyzeCmd.Flags().Bool("cached", false, "reuse a stored profile when available")
	analyzeCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation when a stored profile exists")
	analyzeCmd.Flags().Int("max-commits-per-repo", 0, "maximum commits to analyze per repository")
	analyzeCmd.Flags().Bool("include-forks", false, "include forked repositories")
	analyzeCmd.Flags().String("database", "", "database path for storing results")

	viper.BindPFlag("pipeline.include-forks", analyzeCmd.Flags().Lookup("include-forks"))
	viper.BindPFlag("database", analyzeCmd.Flags().Lookup("database"))
}

// analyze is the main command for the cli.
func analyze(cmd *cobra.Command, username string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the gitanalyzer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	store, err := storage.Open(viper.GetString("database"))
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer store.Close()

	if cmd.Flag("cached").Value.String() == "true" {
		cached, ok, err := store.LoadProfile(username)
		if err != nil {
			logger.Fatal("loading stored profile", zap.Error(err))
		}
		if ok && useCached(cmd, cached, logger) {
			if err := render(cmd, cached, logger); err != nil {
				logger.Fatal("writing output", zap.Error(err))
			}
			return
		}
		logger.Info("no stored profile used, performing fresh analysis")
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading github token",
			zap.Error(err),
			zap.String("hint", "set GITHUB_TOKEN_FILE environment variable or the 'github.token-file' key in the configuration file"),
		)
	}

	provider, err := newProvider(ctx, config.LLM, logger)
	if err != nil {
		logger.Fatal("building llm provider", zap.Error(err))
	}

	gh := github.New(ctx, token, logger)

	pipeline := analysis.NewPipeline(
		gh,
		provider,
		store,
		progress.NewLogReporter(logger),
		logger,
		pipelineConfig(cmd, config.Pipeline),
	)

	logger.Info("starting the analysis", zap.String("username", username), zap.String("provider", provider.Name()))

	result, err := pipeline.AnalyzeUser(ctx, username)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	if err := render(cmd, result, logger); err != nil {
		logger.Fatal("writing output", zap.Error(err))
	}
}

// useCached asks the operator whether a stored profile should be reused.
// The --yes flag skips the prompt.
func useCached(cmd *cobra.Command, cached *profile.UserProfile, logger *zap.Logger) bool {
	logger.Info("found stored profile",
		zap.Time("analysis_date", cached.AnalysisDate),
		zap.Int("skills", len(cached.Skills)),
	)

	if cmd.Flag("yes").Value.String() == "true" {
		return true
	}

	_, action, err := cachedPrompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
	return action == PromptUseCached
}

func resolveToken(config *Config) (string, error) {
	src := secrets.Source{Name: "github token"}
	if config.GitHub != nil {
		src.Value = config.GitHub.Token
		src.File = config.GitHub.TokenFile
	}
	return secrets.Load(src)
}

func newProvider(ctx context.Context, cfg *LLMConfig, logger *zap.Logger) (llm.Provider, error) {
	providerName := "claude"
	if cfg != nil && cfg.Provider != "" {
		providerName = strings.TrimSpace(strings.ToLower(cfg.Provider))
	}

	switch providerName {
	case "claude":
		var pc ProviderConfig
		if cfg != nil && cfg.Claude != nil {
			pc = *cfg.Claude
		}
		apiKey, err := secrets.Load(secrets.Source{Name: "anthropic api key", File: pc.APIKeyFile})
		if err != nil {
			return nil, fmt.Errorf("%w (set llm.claude.api-key-file or ANTHROPIC_API_KEY_FILE)", err)
		}
		return llm.NewClaude(apiKey, pc.Model, logger), nil
	case "gemini":
		var pc ProviderConfig
		if cfg != nil && cfg.Gemini != nil {
			pc = *cfg.Gemini
		}
		apiKey, err := secrets.Load(secrets.Source{Name: "gemini api key", File: pc.APIKeyFile})
		if err != nil {
			return nil, fmt.Errorf("%w (set llm.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		return llm.NewGemini(ctx, apiKey, pc.Model, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", providerName)
	}
}

func pipelineConfig(cmd *cobra.Command, cfg *PipelineConfig) analysis.PipelineConfig {
	result := analysis.DefaultPipelineConfig()
	if cfg != nil {
		if cfg.MaxCommitsPerRepo > 0 {
			result.MaxCommitsPerRepo = cfg.MaxCommitsPerRepo
		}
		if cfg.Concurrency > 0 {
			result.Concurrency = cfg.Concurrency
		}
		result.IncludeForks = cfg.IncludeForks
	}

	if v, err := cmd.Flags().GetInt("max-commits-per-repo"); err == nil && v > 0 {
		result.MaxCommitsPerRepo = v
	}
	if cmd.Flag("include-forks").Changed {
		result.IncludeForks = cmd.Flag("include-forks").Value.String() == "true"
	}

	return result
}

func render(cmd *cobra.Command, result *profile.UserProfile, logger *zap.Logger) error {
	format, _ := cmd.Flags().GetString("format")

	var out string
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding profile: %w", err)
		}
		out = string(data)
	case "markdown":
		out = formatMarkdown(result)
	default:
		out = formatText(result)
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		fmt.Println(out)
		return nil
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("output written", zap.String("path", path))
	return nil
}
