// Command deepchat talks to DeepInfra's chat-completion API from the terminal.
//
// Settings are read from flags, then DEEPCHAT_* environment variables, then
// an optional YAML file given with --config. A .env file in the working
// directory is loaded first.
//
//	deepchat models
//	deepchat ask --model meta-llama/Meta-Llama-3-8B-Instruct "Why is the sky blue?"
//	deepchat chat --history-db ~/.deepchat.db
package main

import (
	"context"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
