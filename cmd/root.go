package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/portfolio/internal/content"
	"github.com/joescharf/portfolio/internal/gallery"
	"github.com/joescharf/portfolio/internal/github"
	"github.com/joescharf/portfolio/internal/output"
	"github.com/joescharf/portfolio/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	logger    *slog.Logger
	dataStore store.Store
	doc       *content.Content
	svc       *gallery.Service

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio server - profile, GitHub project gallery, ML lab and contact form",
	Long: `portfolio serves a personal portfolio as a JSON API, CLI and MCP server.
It builds a project gallery from GitHub repositories tagged with a topic,
scores text in a small lexicon lab, serves the resume and stores contact
form messages in SQLite.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/portfolio/config.yaml)")
	rootCmd.PersistentFlags().String("content", "", "Portfolio content YAML (default: embedded sample)")
	_ = viper.BindPFlag("content_path", rootCmd.PersistentFlags().Lookup("content"))
}

func initConfig() {
	// .env in the working directory feeds the environment before viper reads it.
	_ = godotenv.Load()

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "portfolio"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PORTFOLIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	_ = viper.ReadInConfig()
}

// setDefaults registers every config key with its default value.
func setDefaults() {
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "portfolio")

	viper.SetDefault("state_dir", defaultConfigDir)
	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "portfolio.db"))
	viper.SetDefault("content_path", "")
	viper.SetDefault("port", 8080)
	viper.SetDefault("github.token", "")
	viper.SetDefault("github.api_url", "")
	viper.SetDefault("github.timeout", github.DefaultTimeout)
	viper.SetDefault("gallery.max_items", 0) // 0 defers to github.max_items in content
	viper.SetDefault("gallery.workers", gallery.DefaultWorkers)
	viper.SetDefault("gallery.language_cache_size", gallery.DefaultLanguageCacheSize)
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	logger = newLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Store, content and gallery are opened lazily so config/version
	// commands run without them.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	s, err := openStore()
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(context.Background()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

func openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(viper.GetString("db_path"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// getContent loads the portfolio content once.
func getContent() (*content.Content, error) {
	if doc != nil {
		return doc, nil
	}
	c, err := content.Load(viper.GetString("content_path"))
	if err != nil {
		return nil, err
	}
	doc = c
	return doc, nil
}

// githubToken prefers the config key, then the conventional GITHUB_TOKEN.
func githubToken() string {
	if tok := viper.GetString("github.token"); tok != "" {
		return tok
	}
	return os.Getenv("GITHUB_TOKEN")
}

// getGallery wires the GitHub client, language enricher and gallery service.
func getGallery() (*gallery.Service, error) {
	if svc != nil {
		return svc, nil
	}
	c, err := getContent()
	if err != nil {
		return nil, err
	}

	client, err := github.NewClient(github.Options{
		Token:   githubToken(),
		BaseURL: viper.GetString("github.api_url"),
		Timeout: viper.GetDuration("github.timeout"),
	})
	if err != nil {
		return nil, fmt.Errorf("github client: %w", err)
	}

	log := getLogger()
	langs := gallery.NewEnricher(client, viper.GetInt("gallery.language_cache_size"), log)
	svc = gallery.NewService(client, langs, c.GalleryConfig(viper.GetInt("gallery.max_items"), viper.GetInt("gallery.workers")), log)
	return svc, nil
}

func getLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
