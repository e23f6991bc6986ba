// Package anki exports the word pairs of aligned translations as a CSV
// file that Anki can import as vocabulary cards.
package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/interlinear/internal/alignment"
	"codeberg.org/snonux/interlinear/internal/translation"
)

// Card represents a single Anki flashcard
type Card struct {
	Front    string // Source token
	Back     string // Target token
	Sentence string // Sentence the pair comes from
	Language string // Target locale code
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
	Deduplicate    bool   // Skip pairs already added
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
		Deduplicate:    true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
	seen    map[string]struct{}
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
		seen:    make(map[string]struct{}),
	}
}

// AddCard adds a card to the collection. It reports false when the card
// was dropped as a duplicate.
func (g *Generator) AddCard(card Card) bool {
	if g.options.Deduplicate {
		key := card.Language + "\x00" + strings.ToLower(card.Front) + "\x00" + strings.ToLower(card.Back)
		if _, ok := g.seen[key]; ok {
			return false
		}
		g.seen[key] = struct{}{}
	}
	g.cards = append(g.cards, card)
	return true
}

// AddTranslation adds one card per aligned token pair of t and returns the
// number of cards added. Replies that do not align contribute nothing.
func (g *Generator) AddTranslation(t *translation.Translation) int {
	block, reason := alignment.Parse(t.Raw)
	if reason != alignment.None {
		return 0
	}

	added := 0
	for _, pair := range block.Pairs {
		if g.AddCard(Card{
			Front:    pair.Source,
			Back:     pair.Target,
			Sentence: t.Sentence,
			Language: t.Language.Code,
		}) {
			added++
		}
	}
	return added
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"Front", "Back", "Sentence", "Language"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{card.Front, card.Back, card.Sentence, card.Language}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	return nil
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, sentences int) {
	seen := make(map[string]struct{})
	for _, card := range g.cards {
		seen[card.Sentence] = struct{}{}
	}
	return len(g.cards), len(seen)
}
