package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configForce bool

// configDirFunc returns the config directory path, replaceable in tests.
var configDirFunc = defaultConfigDir

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "portfolio"), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage portfolio configuration.

Running bare 'portfolio config' is the same as 'portfolio config show'.
Every key can also be set through a PORTFOLIO_ environment variable
(dots become underscores) or a .env file in the working directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration with sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configEditRun()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

// configTemplate is the template for generating config.yaml with comments.
const configTemplate = `# portfolio configuration
# See: portfolio config show (for effective values and sources)

# State/data directory, holds the PID file (default: ~/.config/portfolio)
# state_dir: {{ .StateDir }}

# SQLite database for contact form messages
# db_path: {{ .DBPath }}

# Portfolio content YAML; empty uses the embedded sample
content_path: "{{ .ContentPath }}"

# HTTP port for 'portfolio serve'
port: {{ .Port }}

# GitHub
github:
  # Token for higher rate limits; GITHUB_TOKEN is used when empty
  token: ""
  # REST API base URL, for GitHub Enterprise (default: public GitHub)
  api_url: "{{ .GitHubAPIURL }}"
  # Per-request timeout
  timeout: {{ .GitHubTimeout }}

# Project gallery
gallery:
  # Repositories to fetch; 0 uses github.max_items from the content file
  max_items: {{ .MaxItems }}
  # Concurrent language lookups
  workers: {{ .Workers }}
  # Cached language breakdowns
  language_cache_size: {{ .LanguageCacheSize }}

# Anthropic, for 'portfolio ask' and /api/v1/ask
anthropic:
  # API key; ANTHROPIC_API_KEY is used when empty
  api_key: ""
  model: "{{ .AnthropicModel }}"
`

type configTemplateData struct {
	StateDir          string
	DBPath            string
	ContentPath       string
	Port              int
	GitHubAPIURL      string
	GitHubTimeout     string
	MaxItems          int
	Workers           int
	LanguageCacheSize int
	AnthropicModel    string
}

func configFilePath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configInitRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
		ui.Warning("Overwriting existing config file")
	}

	// Build template data from current viper values
	data := configTemplateData{
		StateDir:          viper.GetString("state_dir"),
		DBPath:            viper.GetString("db_path"),
		ContentPath:       viper.GetString("content_path"),
		Port:              viper.GetInt("port"),
		GitHubAPIURL:      viper.GetString("github.api_url"),
		GitHubTimeout:     viper.GetDuration("github.timeout").String(),
		MaxItems:          viper.GetInt("gallery.max_items"),
		Workers:           viper.GetInt("gallery.workers"),
		LanguageCacheSize: viper.GetInt("gallery.language_cache_size"),
		AnthropicModel:    viper.GetString("anthropic.model"),
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template execute error: %w", err)
	}

	if dryRun {
		ui.DryRunMsg("Would create config file: %s", cfgPath)
		fmt.Fprintln(ui.Out)
		fmt.Fprint(ui.Out, buf.String())
		return nil
	}

	// Create config directory
	dir := filepath.Dir(cfgPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ui.Success("Config file created: %s", cfgPath)
	fmt.Fprintln(ui.Out)
	fmt.Fprint(ui.Out, buf.String())
	return nil
}

// configKeyInfo describes a config key for display purposes.
type configKeyInfo struct {
	Key    string
	EnvVar string
	Secret bool
}

var configKeys = []configKeyInfo{
	{Key: "state_dir", EnvVar: "PORTFOLIO_STATE_DIR"},
	{Key: "db_path", EnvVar: "PORTFOLIO_DB_PATH"},
	{Key: "content_path", EnvVar: "PORTFOLIO_CONTENT_PATH"},
	{Key: "port", EnvVar: "PORTFOLIO_PORT"},
	{Key: "github.token", EnvVar: "PORTFOLIO_GITHUB_TOKEN", Secret: true},
	{Key: "github.api_url", EnvVar: "PORTFOLIO_GITHUB_API_URL"},
	{Key: "github.timeout", EnvVar: "PORTFOLIO_GITHUB_TIMEOUT"},
	{Key: "gallery.max_items", EnvVar: "PORTFOLIO_GALLERY_MAX_ITEMS"},
	{Key: "gallery.workers", EnvVar: "PORTFOLIO_GALLERY_WORKERS"},
	{Key: "gallery.language_cache_size", EnvVar: "PORTFOLIO_GALLERY_LANGUAGE_CACHE_SIZE"},
	{Key: "anthropic.api_key", EnvVar: "PORTFOLIO_ANTHROPIC_API_KEY", Secret: true},
	{Key: "anthropic.model", EnvVar: "PORTFOLIO_ANTHROPIC_MODEL"},
}

func configShowRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if config file exists
	if _, err := os.Stat(cfgPath); err == nil {
		ui.Info("Config file: %s", cfgPath)
	} else {
		ui.Info("Config file: (none)")
	}
	fmt.Fprintln(ui.Out)

	// Read config file values to determine file source
	fileValues := readConfigFileValues(cfgPath)

	for _, k := range configKeys {
		val := viper.Get(k.Key)
		if k.Secret {
			val = maskSecret(viper.GetString(k.Key))
		}
		source := detectSource(k.Key, k.EnvVar, fileValues)
		fmt.Fprintf(ui.Out, "  %-30s %v  %s\n", k.Key, val, source)
	}

	return nil
}

// maskSecret hides all but the last four characters of a credential.
func maskSecret(v string) string {
	switch {
	case v == "":
		return "(unset)"
	case len(v) <= 4:
		return "****"
	default:
		return "****" + v[len(v)-4:]
	}
}

// readConfigFileValues reads the raw YAML file and returns a flat map of keys present in it.
func readConfigFileValues(path string) map[string]bool {
	result := make(map[string]bool)

	data, err := os.ReadFile(path)
	if err != nil {
		return result
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return result
	}

	// Flatten nested keys with dot notation
	flattenKeys("", parsed, result)
	return result
}

// flattenKeys recursively flattens a nested map to dot-notation keys.
func flattenKeys(prefix string, m map[string]any, result map[string]bool) {
	for key, val := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenKeys(fullKey, nested, result)
		} else {
			result[fullKey] = true
		}
	}
}

// detectSource determines where a config value is coming from.
func detectSource(key, envVar string, fileValues map[string]bool) string {
	if _, ok := os.LookupEnv(envVar); ok {
		return fmt.Sprintf("(env: %s)", envVar)
	}
	if fileValues[key] {
		return "(file)"
	}
	return "(default)"
}

func configEditRun() error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set; set it to your preferred editor (e.g. export EDITOR=vim)")
	}

	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s (run 'portfolio config init' first)", cfgPath)
	}

	if dryRun {
		ui.DryRunMsg("Would open %s in %s", cfgPath, editor)
		return nil
	}

	editCmd := exec.Command(editor, cfgPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	return editCmd.Run()
}
