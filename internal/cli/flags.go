package cli

import "codeberg.org/snonux/interlinear/internal/alignment"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile       string
	OutputDir     string
	BatchFile     string
	Stdin         bool
	AnkiFile      string
	ListModels    bool
	ListLanguages bool
	Archive       bool
	Debug         bool

	// Translation flags
	Language       string
	SourceLanguage string
	Provider       string
	Model          string
	BaseURL        string
	Concurrency    int

	// Formatting flags
	MaxLineLength int
	Measure       string

	// History flags
	HistoryDB   string
	NoHistory   bool
	ShowHistory int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Language:      "English",
		Provider:      "openai",
		Concurrency:   4,
		MaxLineLength: alignment.DefaultMaxLineLength,
		Measure:       "runes",
	}
}
