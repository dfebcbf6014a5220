// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sayCmd = &cobra.Command{
	Use:   "say",
	Short: "Generate sentences from a saved brain without learning",
	Args:  cobra.NoArgs,
	RunE:  runSay,
}

func init() {
	sayCmd.Flags().IntP("count", "n", 1, "number of sentences to generate")
	rootCmd.AddCommand(sayCmd)
}

func runSay(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("count")
	if n < 1 {
		return fmt.Errorf("count must be at least 1, got %d", n)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	e, err := loadEngine(cmd.Context(), st, cfg.Store.Brain, false)
	if err != nil {
		return err
	}
	for range n {
		fmt.Println(e.Generate())
	}
	return nil
}
