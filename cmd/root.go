package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "gitanalyzer"
)

type Config struct {
	GitHub   *GitHubConfig   `mapstructure:"github"`
	LLM      *LLMConfig      `mapstructure:"llm"`
	Pipeline *PipelineConfig `mapstructure:"pipeline"`
	Database string          `mapstructure:"database"`
}

type GitHubConfig struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token-file"`
}

type LLMConfig struct {
	Provider string          `mapstructure:"provider"`
	Claude   *ProviderConfig `mapstructure:"claude"`
	Gemini   *ProviderConfig `mapstructure:"gemini"`
}

type ProviderConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type PipelineConfig struct {
	MaxCommitsPerRepo int  `mapstructure:"max-commits-per-repo"`
	IncludeForks      bool `mapstructure:"include-forks"`
	Concurrency       int  `mapstructure:"concurrency"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "gitanalyzer profiles a GitHub account's commit history and rates developer skills",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("github.token-file", "GITHUB_TOKEN_FILE"); err != nil {
		log.Fatalf("binding GITHUB_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("llm.claude.api-key-file", "ANTHROPIC_API_KEY_FILE"); err != nil {
		log.Fatalf("binding ANTHROPIC_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("llm.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is gitanalyzer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	viper.SetDefault("llm.provider", "claude")
	viper.SetDefault("database", "gitanalyzer.db")
	viper.SetDefault("pipeline.max-commits-per-repo", 50)
	viper.SetDefault("pipeline.concurrency", 5)

	// Config needed only for the analyze command. Defaults and environment
	// variables still apply when no file exists.
	if analyzeCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
