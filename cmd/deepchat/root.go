package main

import (
	"io"

	"github.com/spf13/cobra"
)

// runFunc is a command body that receives a ready app.
type runFunc func(cmd *cobra.Command, a *app, args []string) error

// newRootCommand builds the command tree. Streams are injected so tests can
// drive the commands.
func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "deepchat",
		Short:         "Chat with DeepInfra hosted models",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	addGlobalFlags(root)

	root.AddCommand(
		newModelsCommand(),
		newAskCommand(),
		newChatCommand(),
	)
	return root
}

// withApp resolves settings and builds the app before calling run.
func withApp(run runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		resolved, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(resolved, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.close()

		return run(cmd, a, args)
	}
}
