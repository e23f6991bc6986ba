package alignment

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxLineLength is the default budget for the bracketed content of
// one row, not counting the marker prefix.
const DefaultMaxLineLength = 25

// FailureKind explains why Format returned its input unchanged.
type FailureKind int

const (
	// None means the input was reformatted.
	None FailureKind = iota
	// InsufficientLines means fewer than two non-blank lines.
	InsufficientLines
	// BlankMarker means a row has no leading marker.
	BlankMarker
	// TokenCountMismatch means the rows carry different numbers of tokens.
	TokenCountMismatch
	// NoTokens means neither row carries a bracketed token.
	NoTokens
	// InternalFault means rendering failed unexpectedly.
	InternalFault
)

func (k FailureKind) String() string {
	switch k {
	case None:
		return "none"
	case InsufficientLines:
		return "insufficient lines"
	case BlankMarker:
		return "blank marker"
	case TokenCountMismatch:
		return "token count mismatch"
	case NoTokens:
		return "no tokens"
	case InternalFault:
		return "internal fault"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// Result is the outcome of Format. Text is always usable: either the
// reformatted block or the original input.
type Result struct {
	Text   string
	Reason FailureKind
}

// Formatted reports whether Text is the reformatted block.
func (r Result) Formatted() bool {
	return r.Reason == None
}

// Formatter wraps aligned token pairs into fixed-width segments.
// A Formatter holds no per-call state and is safe for concurrent use.
type Formatter struct {
	maxLineLength int
	measure       MeasureFunc
	logger        *zap.Logger
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithMaxLineLength sets the per-row budget. Values below 1 are ignored.
func WithMaxLineLength(n int) Option {
	return func(f *Formatter) {
		if n > 0 {
			f.maxLineLength = n
		}
	}
}

// WithMeasure sets how row length is measured.
func WithMeasure(m MeasureFunc) Option {
	return func(f *Formatter) {
		if m != nil {
			f.measure = m
		}
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(f *Formatter) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a formatter with the default budget and rune measure.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		maxLineLength: DefaultMaxLineLength,
		measure:       MeasureRunes,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// MaxLineLength returns the configured per-row budget.
func (f *Formatter) MaxLineLength() int {
	return f.maxLineLength
}

// Format reformats raw, or returns it unchanged with the reason when raw
// is not a well-formed two-row reply.
func (f *Formatter) Format(raw string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("alignment render failed, keeping original text",
				zap.Any("panic", r))
			res = Result{Text: raw, Reason: InternalFault}
		}
	}()

	block, reason := Parse(raw)
	if reason != None {
		if reason == TokenCountMismatch {
			f.logger.Warn("token count mismatch, keeping original text",
				zap.Int("lines", len(splitRows(raw))))
		} else {
			f.logger.Debug("input not reformatted", zap.Stringer("reason", reason))
		}
		return Result{Text: raw, Reason: reason}
	}

	return Result{Text: f.Render(block)}
}

// Render wraps block into segments. Pairs are packed greedily in order; a
// segment is closed before a pair whose token would bring either row to
// the budget. A single token longer than the budget gets a segment of its
// own rather than being split.
func (f *Formatter) Render(block *Block) string {
	var out, source, target strings.Builder

	flush := func() {
		out.WriteString(block.SourceMarker + " " + strings.TrimSpace(source.String()) + "\n")
		out.WriteString(block.TargetMarker + " " + strings.TrimSpace(target.String()) + "\n\n")
		source.Reset()
		target.Reset()
	}

	for _, pair := range block.Pairs {
		if source.Len() > 0 && (f.reaches(source.String(), pair.Source) || f.reaches(target.String(), pair.Target)) {
			flush()
		}
		source.WriteString("[" + pair.Source + "] ")
		target.WriteString("[" + pair.Target + "] ")
	}

	if source.Len() > 0 || target.Len() > 0 {
		flush()
	}

	return strings.TrimSpace(out.String())
}

func (f *Formatter) reaches(row, token string) bool {
	return f.measure(row)+f.measure(token) >= f.maxLineLength
}

var defaultFormatter = New()

// FormatText formats raw with the default settings and always returns a
// usable string.
func FormatText(raw string) string {
	return defaultFormatter.Format(raw).Text
}
