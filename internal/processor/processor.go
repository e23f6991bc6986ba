package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/interlinear/internal/alignment"
	"codeberg.org/snonux/interlinear/internal/anki"
	"codeberg.org/snonux/interlinear/internal/batch"
	"codeberg.org/snonux/interlinear/internal/cli"
	"codeberg.org/snonux/interlinear/internal/history"
	"codeberg.org/snonux/interlinear/internal/language"
	"codeberg.org/snonux/interlinear/internal/session"
	"codeberg.org/snonux/interlinear/internal/translation"
)

// ErrHistoryDisabled is returned when a history operation runs with
// --no-history.
var ErrHistoryDisabled = errors.New("history is disabled")

// Processor handles the main sentence processing logic
type Processor struct {
	flags   *cli.Flags
	logger  *zap.Logger
	service *translation.Service
	store   *history.Store // nil with --no-history
	anki    *anki.Generator
}

// NewProcessor creates a processor that talks to the provider selected
// in flags
func NewProcessor(ctx context.Context, flags *cli.Flags, logger *zap.Logger) (*Processor, error) {
	cfg := translation.DefaultConfig()
	cfg.Provider = flags.Provider
	cfg.APIKey = cli.GetAPIKey(flags.Provider)
	cfg.Model = flags.Model
	cfg.BaseURL = flags.BaseURL
	cfg.Logger = logger

	requester, err := translation.NewRequester(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newProcessor(flags, requester, logger)
}

func newProcessor(flags *cli.Flags, requester translation.Requester, logger *zap.Logger) (*Processor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	target, err := language.Lookup(flags.Language)
	if err != nil {
		return nil, err
	}

	opts := []translation.ServiceOption{
		translation.WithFormatter(NewFormatter(flags, logger)),
		translation.WithState(session.New(target)),
		translation.WithServiceLogger(logger),
	}

	if flags.SourceLanguage != "" {
		source, err := language.Lookup(flags.SourceLanguage)
		if err != nil {
			return nil, fmt.Errorf("source language: %w", err)
		}
		opts = append(opts, translation.WithSourceLanguage(source))
	}

	p := &Processor{
		flags:  flags,
		logger: logger,
	}

	if !flags.NoHistory && flags.HistoryDB != "" {
		store, err := history.Open(flags.HistoryDB)
		if err != nil {
			return nil, err
		}
		p.store = store
		opts = append(opts, translation.WithRecorder(store))
	}

	if flags.AnkiFile != "" {
		ankiOpts := anki.DefaultGeneratorOptions()
		ankiOpts.OutputPath = flags.AnkiFile
		p.anki = anki.NewGenerator(ankiOpts)
	}

	p.service = translation.NewService(requester, opts...)
	return p, nil
}

// NewFormatter builds the formatter configured by flags
func NewFormatter(flags *cli.Flags, logger *zap.Logger) *alignment.Formatter {
	return alignment.New(
		alignment.WithMaxLineLength(flags.MaxLineLength),
		alignment.WithMeasure(alignment.MeasureByName(flags.Measure)),
		alignment.WithLogger(logger),
	)
}

// Close releases the history database
func (p *Processor) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

// Target returns the language translations are made into
func (p *Processor) Target() language.Language {
	return p.service.State().Language()
}

// ProcessSentence translates one sentence and prints the aligned result
func (p *Processor) ProcessSentence(ctx context.Context, sentence string) error {
	t, err := p.service.Translate(ctx, "", sentence, p.Target())
	if err != nil {
		return err
	}
	fmt.Println(t.Text)
	return p.finish(t)
}

// ProcessBatch translates every sentence of the batch file. Requests run
// concurrently; results are printed in file order.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	results := make([]*translation.Translation, len(entries))
	errs := make([]error, len(entries))
	target := p.Target()

	var g errgroup.Group
	g.SetLimit(max(p.flags.Concurrency, 1))
	for i, entry := range entries {
		g.Go(func() error {
			// Keep going on failure; errors are reported per sentence.
			results[i], errs[i] = p.service.Translate(ctx, entry.MessageID, entry.Sentence, target)
			return nil
		})
	}
	_ = g.Wait()

	// Track statistics
	processedCount := 0
	unalignedCount := 0
	errorCount := 0

	for i, entry := range entries {
		if errs[i] != nil {
			fmt.Fprintf(os.Stderr, "Error translating line %d '%s': %v\n", entry.Line, entry.Sentence, errs[i])
			errorCount++
			continue
		}

		t := results[i]
		fmt.Printf("# %s\n%s\n\n", t.Sentence, t.Text)
		if !t.Formatted() {
			unalignedCount++
		}
		if err := p.finish(t); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving '%s': %v\n", t.MessageID, err)
			errorCount++
			continue
		}
		processedCount++
	}

	// Print summary
	fmt.Fprintf(os.Stderr, "\n=== Batch Summary ===\n")
	fmt.Fprintf(os.Stderr, "Total sentences: %d\n", len(entries))
	fmt.Fprintf(os.Stderr, "Translated: %d\n", processedCount)
	if unalignedCount > 0 {
		fmt.Fprintf(os.Stderr, "Not aligned (raw reply shown): %d\n", unalignedCount)
	}
	if errorCount > 0 {
		fmt.Fprintf(os.Stderr, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(os.Stderr, "=====================\n")

	if errorCount > 0 && processedCount == 0 {
		return fmt.Errorf("all %d sentences failed", errorCount)
	}
	return nil
}

// finish saves t to the output directory and queues its Anki cards
func (p *Processor) finish(t *translation.Translation) error {
	if !t.Formatted() {
		p.logger.Warn("translation could not be aligned",
			zap.String("message_id", t.MessageID),
			zap.Stringer("reason", t.Reason))
	}

	if p.anki != nil {
		p.anki.AddTranslation(t)
	}

	if p.flags.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path, err := translation.SaveTranslation(p.flags.OutputDir, t)
	if err != nil {
		return err
	}
	p.logger.Debug("saved translation", zap.String("path", path))
	return nil
}

// GenerateAnkiFile writes the collected word pairs as an Anki CSV file
// and returns its path
func (p *Processor) GenerateAnkiFile() (string, error) {
	if p.anki == nil {
		return "", errors.New("no Anki output file configured")
	}
	if err := p.anki.GenerateCSV(); err != nil {
		return "", err
	}
	total, sentences := p.anki.Stats()
	fmt.Fprintf(os.Stderr, "Anki export: %d cards from %d sentences\n", total, sentences)
	return p.flags.AnkiFile, nil
}

// ShowHistory prints the n most recent translations, newest first
func (p *Processor) ShowHistory(ctx context.Context, n int) error {
	if p.store == nil {
		return ErrHistoryDisabled
	}

	records, err := p.store.List(ctx, n)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No translations in history.")
		return nil
	}

	for _, rec := range records {
		fmt.Printf("# %s  %s  %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Language, rec.MessageID)
		fmt.Println(rec.Sentence)
		fmt.Println()
		fmt.Println(rec.Text)
		if rec.Reason != "" {
			fmt.Printf("(not aligned: %s)\n", rec.Reason)
		}
		fmt.Println()
	}
	return nil
}

// FormatStdin aligns a two-row reply read from r without calling a
// provider. Input that cannot be aligned is written back unchanged.
func FormatStdin(r io.Reader, w io.Writer, f *alignment.Formatter) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	res := f.Format(string(data))
	if _, err := fmt.Fprintln(w, strings.TrimRight(res.Text, "\n")); err != nil {
		return err
	}
	if !res.Formatted() {
		fmt.Fprintf(os.Stderr, "Note: input not aligned (%s)\n", res.Reason)
	}
	return nil
}

// ListLanguages prints the supported target languages and marks the
// selected one
func ListLanguages(w io.Writer, selected string) error {
	current, err := language.Lookup(selected)
	if err != nil {
		current = language.Default
	}

	for _, l := range language.All() {
		mark := " "
		if l == current {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s %s\n", mark, l.Flag, l); err != nil {
			return err
		}
	}
	return nil
}
