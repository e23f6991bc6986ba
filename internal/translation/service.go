package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"codeberg.org/snonux/interlinear/internal"
	"codeberg.org/snonux/interlinear/internal/alignment"
	"codeberg.org/snonux/interlinear/internal/history"
	"codeberg.org/snonux/interlinear/internal/language"
	"codeberg.org/snonux/interlinear/internal/session"
)

// ErrEmptySentence is returned when there is nothing to translate.
var ErrEmptySentence = errors.New("empty sentence")

// Translation is one translated sentence.
type Translation struct {
	MessageID string
	Sentence  string
	Language  language.Language
	Raw       string // Reply as received from the provider
	Text      string // Aligned output, or Raw when it could not be aligned
	Reason    alignment.FailureKind
	Provider  string
	CreatedAt time.Time
}

// Formatted reports whether Text is the aligned block.
func (t Translation) Formatted() bool {
	return t.Reason == alignment.None
}

// Recorder persists translations between runs.
type Recorder interface {
	Get(ctx context.Context, messageID, language string) (*history.Record, error)
	Save(ctx context.Context, rec history.Record) error
}

// Service translates sentences, sharing one request among concurrent
// callers of the same message.
type Service struct {
	requester Requester
	formatter *alignment.Formatter
	cache     *TranslationCache
	state     *session.State
	recorder  Recorder
	source    language.Language
	logger    *zap.Logger
	group     singleflight.Group
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithFormatter sets the formatter applied to replies.
func WithFormatter(f *alignment.Formatter) ServiceOption {
	return func(s *Service) { s.formatter = f }
}

// WithState sets the session state updated while requests are in flight.
func WithState(st *session.State) ServiceOption {
	return func(s *Service) { s.state = st }
}

// WithRecorder sets the persistent history.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithSourceLanguage fixes the source language instead of letting the
// provider detect it.
func WithSourceLanguage(l language.Language) ServiceOption {
	return func(s *Service) { s.source = l }
}

// WithServiceLogger sets the diagnostics logger.
func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a translation service around requester.
func NewService(requester Requester, opts ...ServiceOption) *Service {
	s := &Service{
		requester: requester,
		cache:     NewTranslationCache(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.formatter == nil {
		s.formatter = alignment.New(alignment.WithLogger(s.logger))
	}
	if s.state == nil {
		s.state = session.New(language.Default)
	}
	return s
}

// Cache returns the in-memory cache.
func (s *Service) Cache() *TranslationCache {
	return s.cache
}

// State returns the session state.
func (s *Service) State() *session.State {
	return s.state
}

// Translate translates sentence into target. An empty messageID is
// derived from the sentence. A reply that cannot be aligned is still a
// successful translation; its Reason says why Text is the raw reply.
func (s *Service) Translate(ctx context.Context, messageID, sentence string, target language.Language) (*Translation, error) {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return nil, ErrEmptySentence
	}
	if messageID == "" {
		messageID = internal.MessageID(sentence)
	}

	if t, ok := s.lookup(ctx, messageID, target.Code); ok {
		return &t, nil
	}

	v, err, shared := s.group.Do(cacheKey(messageID, target.Code), func() (interface{}, error) {
		// A flight that finished between lookup and Do already filled the cache.
		if t, ok := s.cache.Get(messageID, target.Code); ok {
			return t, nil
		}
		return s.request(ctx, messageID, sentence, target)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("shared in-flight translation", zap.String("message_id", messageID))
	}

	t := v.(Translation)
	return &t, nil
}

func (s *Service) lookup(ctx context.Context, messageID, code string) (Translation, bool) {
	if t, ok := s.cache.Get(messageID, code); ok {
		s.logger.Debug("translation cache hit", zap.String("message_id", messageID))
		return t, true
	}
	if s.recorder == nil {
		return Translation{}, false
	}

	rec, err := s.recorder.Get(ctx, messageID, code)
	if err != nil {
		if !errors.Is(err, history.ErrNotFound) {
			s.logger.Warn("history lookup failed", zap.Error(err))
		}
		return Translation{}, false
	}

	lang, err := language.Lookup(rec.Language)
	if err != nil {
		return Translation{}, false
	}
	res := s.formatter.Format(rec.Raw)
	t := Translation{
		MessageID: rec.MessageID,
		Sentence:  rec.Sentence,
		Language:  lang,
		Raw:       rec.Raw,
		Text:      res.Text,
		Reason:    res.Reason,
		Provider:  rec.Provider,
		CreatedAt: rec.CreatedAt,
	}
	s.cache.Add(t)
	s.logger.Debug("translation loaded from history", zap.String("message_id", messageID))
	return t, true
}

func (s *Service) request(ctx context.Context, messageID, sentence string, target language.Language) (Translation, error) {
	s.state.BeginLoading(messageID)
	defer s.state.EndLoading(messageID)

	prompt := BuildPrompt(sentence, target, s.source)
	raw, err := s.requester.Request(ctx, prompt)
	if err != nil {
		return Translation{}, fmt.Errorf("translation of %s failed: %w", messageID, err)
	}

	res := s.formatter.Format(raw)
	if !res.Formatted() {
		s.logger.Info("reply kept unaligned",
			zap.String("message_id", messageID),
			zap.Stringer("reason", res.Reason))
	}

	t := Translation{
		MessageID: messageID,
		Sentence:  sentence,
		Language:  target,
		Raw:       raw,
		Text:      res.Text,
		Reason:    res.Reason,
		Provider:  s.requester.Name(),
		CreatedAt: time.Now(),
	}
	s.cache.Add(t)

	if s.recorder != nil {
		if err := s.recorder.Save(ctx, toRecord(t)); err != nil {
			s.logger.Warn("failed to save translation history", zap.Error(err))
		}
	}

	return t, nil
}

func toRecord(t Translation) history.Record {
	reason := ""
	if !t.Formatted() {
		reason = t.Reason.String()
	}
	return history.Record{
		MessageID: t.MessageID,
		Language:  t.Language.Code,
		Sentence:  t.Sentence,
		Raw:       t.Raw,
		Text:      t.Text,
		Reason:    reason,
		Provider:  t.Provider,
		CreatedAt: t.CreatedAt,
	}
}
