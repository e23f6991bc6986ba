package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SentenceEntry is one sentence to translate
type SentenceEntry struct {
	// MessageID is empty unless the line names one
	MessageID string
	Sentence  string
	Line      int
}

// ReadBatchFile reads sentences from a file, one per line.
// Supported line formats:
// - Sentence only: "Je pense faire"
// - With message id: "msg-42 = Je pense faire" (the id has no spaces)
// - Comment: "# anything" (ignored)
// Blank lines are skipped.
func ReadBatchFile(filename string) ([]SentenceEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	var entries []SentenceEntry
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := SentenceEntry{Sentence: line, Line: lineNo}
		if id, sentence, ok := strings.Cut(line, "="); ok {
			id = strings.TrimSpace(id)
			sentence = strings.TrimSpace(sentence)
			if id != "" && !strings.ContainsAny(id, " \t") {
				if sentence == "" {
					// Ignore lines with an id but no sentence
					continue
				}
				entry.MessageID = id
				entry.Sentence = sentence
			}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}
