// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat runs line-based conversations and batch learning against a
// brain engine.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/learning-chatbot/internal/brain"
	"github.com/pdiddy/learning-chatbot/pkg/types"
)

// Conversation commands.
const (
	CmdDone = "++done"
	CmdSave = "++save"
	CmdHelp = "++help"
)

const maxLineBytes = 1 << 20

// ErrNoSaver is returned when ++save is typed in a session without a store.
var ErrNoSaver = errors.New("chat: no store to save to")

// Saver persists a brain snapshot under a name.
type Saver interface {
	Save(ctx context.Context, name string, snap types.BrainSnapshot) error
}

// Result summarizes a finished session.
type Result struct {
	// Turns counts the lines learned from.
	Turns int
	// Saved reports whether the brain was saved on exit.
	Saved bool
}

// Session is one conversation with an engine. It owns the engine for its
// lifetime.
type Session struct {
	engine *brain.Engine
	cfg    types.ChatConfig
	saver  Saver
	name   string
	logger *zap.Logger
}

// Option customizes a Session.
type Option func(*Session)

// WithSaver lets ++save persist the brain under name.
func WithSaver(saver Saver, name string) Option {
	return func(s *Session) {
		s.saver = saver
		s.name = name
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession returns a session over e.
func NewSession(e *brain.Engine, cfg types.ChatConfig, opts ...Option) *Session {
	s := &Session{engine: e, cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WriteHelp prints the conversation commands.
func WriteHelp(w io.Writer) {
	fmt.Fprintln(w, "At any time during the conversation, type")
	fmt.Fprintf(w, "   %s\n", CmdDone)
	fmt.Fprintln(w, "to exit without saving.")
	fmt.Fprintln(w, "Or type")
	fmt.Fprintf(w, "   %s\n", CmdSave)
	fmt.Fprintln(w, "to exit and save the brain.")
	fmt.Fprintln(w)
}

// Run converses until ++done, ++save, or the end of input. Every other
// line decays the topics, is learned, and is answered with a generated
// sentence. ++help prints the commands and is answered without learning.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) (Result, error) {
	log := s.logger.With(zap.String("session", uuid.NewString()))
	log.Info("session started", zap.Int("vocabulary", s.engine.Vocabulary()))

	fmt.Fprintln(out, "Welcome to the Learning Chatbot")
	fmt.Fprintln(out)
	WriteHelp(out)

	var result Result
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fmt.Fprint(out, s.cfg.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			log.Info("session ended at end of input", zap.Int("turns", result.Turns))
			return result, scanner.Err()
		}
		line := scanner.Text()

		switch strings.TrimSpace(line) {
		case CmdDone:
			log.Info("session done", zap.Int("turns", result.Turns))
			return result, nil
		case CmdSave:
			if err := s.save(ctx); err != nil {
				return result, err
			}
			result.Saved = true
			fmt.Fprintf(out, "Saved brain %q.\n", s.name)
			log.Info("session saved", zap.Int("turns", result.Turns))
			return result, nil
		case CmdHelp:
			WriteHelp(out)
		default:
			s.engine.Decay()
			s.engine.Ingest(line)
			result.Turns++
		}

		fmt.Fprintf(out, "%s%s\n", s.cfg.ReplyPrefix, s.engine.Generate())
	}
}

func (s *Session) save(ctx context.Context) error {
	if s.saver == nil {
		return ErrNoSaver
	}
	if err := s.saver.Save(ctx, s.name, s.engine.Snapshot()); err != nil {
		return fmt.Errorf("saving brain %s: %w", s.name, err)
	}
	return nil
}
