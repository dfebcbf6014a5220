// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/learning-chatbot/internal/brain"
	"github.com/pdiddy/learning-chatbot/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Converse with a brain, learning from every line",
	Long: `Chat loads the configured brain (or starts an empty one) and reads lines
from standard input. Every line is learned and answered. Type ++save to save
the brain and exit, ++done to exit without saving, or ++help for help.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("fresh", false, "start from an empty brain instead of the saved one")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fresh, _ := cmd.Flags().GetBool("fresh")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var e *brain.Engine
	if fresh {
		e, err = brain.New(cfg.Engine, brain.WithLogger(logger.Named("brain")))
	} else {
		e, err = loadEngine(ctx, st, cfg.Store.Brain, true)
	}
	if err != nil {
		return err
	}

	session := chat.NewSession(e, cfg.Chat,
		chat.WithSaver(st, cfg.Store.Brain),
		chat.WithLogger(logger.Named("chat")))
	_, err = session.Run(ctx, os.Stdin, os.Stdout)
	return err
}
