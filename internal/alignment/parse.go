package alignment

import "strings"

// TokenPair is one aligned source/target token.
type TokenPair struct {
	Source string
	Target string
}

// Block is a parsed two-row reply.
type Block struct {
	SourceMarker string
	TargetMarker string
	Pairs        []TokenPair
}

// Parse extracts the markers and token pairs from raw. A non-None
// FailureKind means raw is not a well-formed two-row reply.
func Parse(raw string) (*Block, FailureKind) {
	rows := splitRows(raw)
	if len(rows) < 2 {
		return nil, InsufficientLines
	}

	sourceMarker := extractMarker(rows[0])
	targetMarker := extractMarker(rows[1])
	if strings.TrimSpace(sourceMarker) == "" || strings.TrimSpace(targetMarker) == "" {
		return nil, BlankMarker
	}

	sourceTokens := extractTokens(rows[0])
	targetTokens := extractTokens(rows[1])
	if len(sourceTokens) != len(targetTokens) {
		return nil, TokenCountMismatch
	}
	if len(sourceTokens) == 0 {
		return nil, NoTokens
	}

	pairs := make([]TokenPair, len(sourceTokens))
	for i := range sourceTokens {
		pairs[i] = TokenPair{Source: sourceTokens[i], Target: targetTokens[i]}
	}

	return &Block{
		SourceMarker: sourceMarker,
		TargetMarker: targetMarker,
		Pairs:        pairs,
	}, None
}

// splitRows returns the non-blank lines of raw in order.
func splitRows(raw string) []string {
	var rows []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			rows = append(rows, line)
		}
	}
	return rows
}

// extractMarker returns everything before the first space of row.
func extractMarker(row string) string {
	marker, _, _ := strings.Cut(row, " ")
	return marker
}

// extractTokens returns the trimmed contents of each [...] group in row.
// Brackets do not nest: an opening bracket inside a group closes the
// token collected so far. Text after an unclosed bracket is dropped.
func extractTokens(row string) []string {
	var tokens []string
	var current strings.Builder
	inside := false

	flush := func() {
		if token := strings.TrimSpace(current.String()); token != "" {
			tokens = append(tokens, token)
		}
		current.Reset()
	}

	for _, r := range row {
		switch {
		case r == '[':
			flush()
			inside = true
		case r == ']':
			flush()
			inside = false
		case inside:
			current.WriteRune(r)
		}
	}

	return tokens
}
