package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/interlinear/internal"
	"codeberg.org/snonux/interlinear/internal/language"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "interlinear [sentence]",
		Short: "Word-by-word bilingual translation formatter",
		Long: `interlinear translates a sentence word by word and prints the source
words and their translations as aligned, bracketed rows wrapped to a
narrow width.

Supported languages: ` + strings.Join(language.Names(), ", ") + `

Examples:
  interlinear "Je pense faire"                 # Translate to English
  interlinear -l France "I think so"           # Translate to French
  interlinear --batch sentences.txt --anki out.csv
  some-llm-tool | interlinear --stdin          # Only align a two-row reply`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultHistoryPath returns the default history database location
func DefaultHistoryPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "interlinear", "history.db")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.interlinear.yaml)")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", "", "Also save each translation as a text file in this directory")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate sentences from file (one per line, optionally 'id = sentence')")
	cmd.Flags().BoolVar(&flags.Stdin, "stdin", false, "Align a two-row translation read from stdin instead of requesting one")
	cmd.Flags().StringVar(&flags.AnkiFile, "anki", "", "Export the word pairs of this run as an Anki import CSV file")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI chat models for the current API key")
	cmd.Flags().BoolVar(&flags.ListLanguages, "list-languages", false, "List supported target languages")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the history database into an archive directory")

	// Translation flags
	cmd.Flags().StringVarP(&flags.Language, "language", "l", flags.Language, "Target language name or code")
	cmd.Flags().StringVar(&flags.SourceLanguage, "from", "", "Source language name or code (default: detected by the provider)")
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: openai or gemini")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Model name (default: gpt-4o-mini for openai, gemini-2.0-flash for gemini)")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "OpenAI-compatible API base URL")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", flags.Concurrency, "Parallel requests in batch mode")

	// Formatting flags
	cmd.Flags().IntVar(&flags.MaxLineLength, "max-line-length", flags.MaxLineLength, "Maximum length of the bracketed words on one row")
	cmd.Flags().StringVar(&flags.Measure, "measure", flags.Measure, "How to measure row length: runes or display (terminal cells)")

	// History flags
	cmd.Flags().StringVar(&flags.HistoryDB, "history-db", DefaultHistoryPath(), "History database path")
	cmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Do not read or write the history database")
	cmd.Flags().IntVar(&flags.ShowHistory, "history", 0, "Print the N most recent translations and exit")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("translation.language", cmd.Flags().Lookup("language"))
	viper.BindPFlag("translation.source_language", cmd.Flags().Lookup("from"))
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("translation.base_url", cmd.Flags().Lookup("base-url"))
	viper.BindPFlag("translation.concurrency", cmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("format.max_line_length", cmd.Flags().Lookup("max-line-length"))
	viper.BindPFlag("format.measure", cmd.Flags().Lookup("measure"))
	viper.BindPFlag("history.path", cmd.Flags().Lookup("history-db"))
}

// ApplyConfig copies config file and environment values into flags for
// every flag not set on the command line
func ApplyConfig(flags *Flags) {
	flags.OutputDir = viper.GetString("output.directory")
	flags.Language = viper.GetString("translation.language")
	flags.SourceLanguage = viper.GetString("translation.source_language")
	flags.Provider = viper.GetString("translation.provider")
	flags.Model = viper.GetString("translation.model")
	flags.BaseURL = viper.GetString("translation.base_url")
	flags.Concurrency = viper.GetInt("translation.concurrency")
	flags.MaxLineLength = viper.GetInt("format.max_line_length")
	flags.Measure = viper.GetString("format.measure")
	flags.HistoryDB = viper.GetString("history.path")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".interlinear" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".interlinear")
	}

	// Environment variables
	viper.SetEnvPrefix("INTERLINEAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translation.gemini_key")
}

// GetAPIKey returns the key for the named provider
func GetAPIKey(provider string) string {
	if provider == "gemini" {
		return GetGeminiKey()
	}
	return GetOpenAIKey()
}
