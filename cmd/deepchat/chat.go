package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leofalp/deepchat/core/conversation"
	"github.com/leofalp/deepchat/providers/ai"
	"github.com/leofalp/deepchat/providers/memory"
	"github.com/leofalp/deepchat/providers/memory/boltmemory"
	"github.com/leofalp/deepchat/providers/memory/inmemory"
)

const chatHelp = `commands:
  /models          list available models
  /model <name>    switch model
  /history         print the conversation so far
  /retry           answer the last user message again
  /clear           forget the conversation, keeping the system prompt
  /conversations   list stored conversations (with --history-db)
  /exit            quit`

func newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			session, err := openChatSession(cmd.Context(), a)
			if err != nil {
				return err
			}
			defer session.close()
			return session.run(cmd.Context(), cmd.InOrStdin())
		}),
	}
	addCompletionFlags(cmd)
	cmd.Flags().String("history-db", "", "bbolt file that persists conversations")
	cmd.Flags().StringP("conversation", "c", "", "conversation id to resume (with --history-db)")
	return cmd
}

// chatSession is one REPL run bound to a conversation.
type chatSession struct {
	app     *app
	conv    *conversation.Conversation
	history memory.Provider
	store   *boltmemory.Store
}

func openChatSession(ctx context.Context, a *app) (*chatSession, error) {
	session := &chatSession{app: a}

	id := a.settings.Conversation
	if id == "" {
		id = uuid.NewString()
	}

	if a.settings.HistoryDB != "" {
		store, err := boltmemory.Open(a.settings.HistoryDB)
		if err != nil {
			return nil, err
		}
		session.store = store
		session.history = store.Memory(id)
	} else {
		session.history = inmemory.New()
	}

	if err := session.seedSystemPrompt(ctx); err != nil {
		session.close()
		return nil, err
	}

	conv, err := a.newConversation(ctx, conversation.WithID(id), conversation.WithMemory(session.history))
	if err != nil {
		session.close()
		return nil, err
	}
	session.conv = conv

	if err := printDeltas(conv, a); err != nil {
		session.close()
		return nil, err
	}

	_, _ = fmt.Fprintf(a.errOut, "conversation %s, type /help for commands\n", id)
	return session, nil
}

// seedSystemPrompt stores the system prompt in an empty history. A resumed
// conversation keeps the prompt it started with; a cleared one gets it back.
func (s *chatSession) seedSystemPrompt(ctx context.Context) error {
	if s.app.settings.System == "" {
		return nil
	}
	count, err := s.history.Count(ctx)
	if err != nil || count > 0 {
		return err
	}
	return s.history.AppendMessage(ctx, &ai.Message{Role: ai.RoleSystem, Content: s.app.settings.System})
}

func (s *chatSession) close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// run reads one line per turn until EOF, /exit or cancellation. Failed
// turns are reported and the loop goes on.
func (s *chatSession) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		_, _ = fmt.Fprint(s.app.out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(s.app.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := s.handle(ctx, line)
		if err != nil {
			_, _ = fmt.Fprintf(s.app.errOut, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *chatSession) handle(ctx context.Context, line string) (bool, error) {
	command, argument, _ := strings.Cut(line, " ")
	argument = strings.TrimSpace(argument)

	switch command {
	case "/exit", "/quit":
		return true, nil
	case "/help":
		_, _ = fmt.Fprintln(s.app.out, chatHelp)
	case "/models":
		for _, model := range s.conv.Models() {
			marker := " "
			if model.FullName == s.conv.Model() {
				marker = "*"
			}
			_, _ = fmt.Fprintf(s.app.out, "%s %s\n", marker, model.FullName)
		}
	case "/model":
		if argument == "" {
			_, _ = fmt.Fprintln(s.app.out, s.conv.Model())
			return false, nil
		}
		return false, s.conv.SetModel(argument)
	case "/history":
		history, err := s.conv.History(ctx)
		if err != nil {
			return false, err
		}
		for _, message := range history {
			_, _ = fmt.Fprintf(s.app.out, "[%s] %s\n", message.Role, message.Content)
		}
	case "/clear":
		if err := s.history.ClearMessages(ctx); err != nil {
			return false, err
		}
		return false, s.seedSystemPrompt(ctx)
	case "/conversations":
		if s.store == nil {
			return false, fmt.Errorf("no history database configured")
		}
		ids, err := s.store.Conversations(ctx)
		if err != nil {
			return false, err
		}
		for _, id := range ids {
			_, _ = fmt.Fprintln(s.app.out, id)
		}
	case "/retry":
		return false, s.complete(ctx, "")
	default:
		if strings.HasPrefix(command, "/") {
			return false, fmt.Errorf("unknown command %s", command)
		}
		return false, s.complete(ctx, line)
	}
	return false, nil
}

func (s *chatSession) complete(ctx context.Context, content string) error {
	answer, err := s.conv.Completion(ctx, content)
	if err != nil {
		return err
	}
	if !s.app.settings.Stream {
		_, _ = fmt.Fprint(s.app.out, answer.Content)
	}
	_, _ = fmt.Fprintln(s.app.out)
	return nil
}

func readAll(reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return string(data), nil
}
