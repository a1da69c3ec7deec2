// Package repl runs the chat assistant in a terminal.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"resume-chat/internal/chat"
	"resume-chat/internal/imagegen"
	"resume-chat/internal/llm"
	"resume-chat/internal/shared/telemetry"
)

var exitWords = map[string]bool{"sair": true, "exit": true, "quit": true}

// Asker is the part of the chat service the REPL needs.
type Asker interface {
	Ask(ctx context.Context, q chat.Question) (chat.Reply, error)
}

// Session is one terminal conversation. History accumulates across turns.
type Session struct {
	Chat     Asker
	In       io.Reader
	Out      io.Writer
	ImageDir string
	Now      func() time.Time

	history []chat.Turn
	saved   int
}

// Run reads questions until EOF or an exit word.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.Out, "Currículo com IA. Digite sua pergunta (sair para encerrar).")
	scanner := bufio.NewScanner(s.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(s.Out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.Out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if exitWords[strings.ToLower(line)] {
			fmt.Fprintln(s.Out, "Até logo!")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Ask(ctx, line)
	}
}

// Ask sends one question and prints the reply.
func (s *Session) Ask(ctx context.Context, question string) {
	reply, err := s.Chat.Ask(ctx, chat.Question{Message: question, History: s.history, ClientKey: "repl"})
	if err != nil {
		telemetry.Error(ctx, "chat_error",
			zap.String("event_type", "chat_error"),
			zap.String("error_message", err.Error()),
			zap.String("user_question", question),
		)
		fmt.Fprintln(s.Out, chat.Apology)
		return
	}

	fmt.Fprintln(s.Out, reply.Response)
	for _, cta := range []*string{reply.CallAction0, reply.CallAction1} {
		if cta != nil && *cta != "" {
			fmt.Fprintf(s.Out, "  -> %s\n", *cta)
		}
	}
	if reply.BackgroundImage != nil {
		s.saveImage(ctx, *reply.BackgroundImage)
	}

	if strings.TrimSpace(question) != "" {
		s.history = append(s.history,
			chat.Turn{Role: llm.RoleUser, Content: strings.TrimSpace(question)},
			chat.Turn{Role: llm.RoleAssistant, Content: reply.Response},
		)
	}
}

// History returns the turns recorded so far.
func (s *Session) History() []chat.Turn {
	return s.history
}

func (s *Session) saveImage(ctx context.Context, uri string) {
	if s.ImageDir == "" {
		fmt.Fprintln(s.Out, "  [imagem gerada]")
		return
	}
	img, err := imagegen.ParseDataURI(uri)
	if err != nil {
		telemetry.Warn(ctx, "repl.image_decode_failed", zap.Error(err))
		return
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if err := os.MkdirAll(s.ImageDir, 0o755); err != nil {
		telemetry.Warn(ctx, "repl.image_dir_failed", zap.Error(err))
		return
	}
	s.saved++
	name := fmt.Sprintf("background-%s-%d%s", now().UTC().Format("20060102-150405"), s.saved, imagegen.Extension(img))
	path := filepath.Join(s.ImageDir, name)
	if err := os.WriteFile(path, img.Bytes, 0o644); err != nil {
		telemetry.Warn(ctx, "repl.image_write_failed", zap.Error(err))
		return
	}
	fmt.Fprintf(s.Out, "  [imagem salva em %s]\n", path)
}
