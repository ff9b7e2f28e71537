package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/deepchat/core/conversation"
	"github.com/leofalp/deepchat/core/event"
	"github.com/leofalp/deepchat/providers/ai"
)

func newAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Ask a single question and print the answer",
		Long:  "Ask a single question. Without arguments the prompt is read from standard input.",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			prompt := strings.Join(args, " ")
			if prompt == "" {
				data, err := readAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				prompt = strings.TrimSpace(data)
			}
			if prompt == "" {
				return errors.New("nothing to ask")
			}

			var opts []conversation.Option
			if a.settings.System != "" {
				opts = append(opts, conversation.WithHistory(ai.Message{Role: ai.RoleSystem, Content: a.settings.System}))
			}
			conv, err := a.newConversation(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			if err := printDeltas(conv, a); err != nil {
				return err
			}

			answer, err := conv.Completion(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			if !a.settings.Stream {
				_, _ = fmt.Fprint(a.out, answer.Content)
			}
			_, _ = fmt.Fprintln(a.out)
			return nil
		}),
	}
	addCompletionFlags(cmd)
	return cmd
}

// printDeltas writes every streamed fragment to the app's output.
func printDeltas(conv *conversation.Conversation, a *app) error {
	return event.Subscribe(conv.Emitter(), event.ChannelDelta, func(delta string) {
		_, _ = fmt.Fprint(a.out, delta)
	})
}
