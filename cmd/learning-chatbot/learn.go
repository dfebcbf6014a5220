// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/learning-chatbot/internal/chat"
)

var learnCmd = &cobra.Command{
	Use:   "learn FILE...",
	Short: "Train a brain from text files, one utterance per line",
	Long: `Learn feeds every non-blank line of each file to the configured brain as
a conversational turn, then saves the brain. Files that cannot be read are
reported and skipped; the brain is still saved with what was learned.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLearn,
}

func init() {
	rootCmd.AddCommand(learnCmd)
}

func runLearn(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	e, err := loadEngine(ctx, st, cfg.Store.Brain, true)
	if err != nil {
		return err
	}

	result := chat.LearnBatch(ctx, e, args, os.Stdout)
	if result.Lines > 0 {
		if err := st.Save(ctx, cfg.Store.Brain, e.Snapshot()); err != nil {
			return err
		}
		fmt.Printf("Saved brain %q (%d words known)\n", cfg.Store.Brain, e.Vocabulary())
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}
