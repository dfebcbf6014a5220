// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/learning-chatbot/internal/brain"
	"github.com/pdiddy/learning-chatbot/internal/store"
	"github.com/pdiddy/learning-chatbot/pkg/types"
)

var brainsCmd = &cobra.Command{
	Use:   "brains",
	Short: "Manage stored brains (list, export, import, inspect, delete)",
	Long: `Brains manages the brains kept in the SQLite database. Use subcommands to
list them, move them to and from YAML or JSON files, look inside one, or
delete one.`,
}

// --- list subcommand ---

var brainsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored brains",
	Args:  cobra.NoArgs,
	RunE:  runBrainsList,
}

func runBrainsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatBrainList(infos, jsonOutput)
}

func formatBrainList(infos []types.BrainInfo, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Println("No brains stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-8s  %-10s  %-20s  %s\n",
		"Name", "Words", "Observed", "Updated", "ID")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, b := range infos {
		name := b.Name
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-8d  %-10d  %-20s  %s\n",
			name, b.Words, b.WordCount, b.UpdatedAt.Local().Format("2006-01-02 15:04:05"), b.ID)
	}

	fmt.Fprintf(os.Stdout, "\n%d brains\n", len(infos))
	return nil
}

// --- export subcommand ---

var brainsExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export a brain to YAML or JSON",
	Long: `Export writes the configured brain to FILE. Files ending in .json are
written as JSON, anything else as YAML. An existing file is not replaced
unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrainsExport,
}

func runBrainsExport(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := st.Load(cmd.Context(), cfg.Store.Brain)
	if err != nil {
		return err
	}
	if err := store.Export(args[0], snap, force); err != nil {
		if errors.Is(err, store.ErrExists) {
			return fmt.Errorf("%w (use --force to replace it)", err)
		}
		return err
	}
	fmt.Printf("Exported brain %q to %s\n", cfg.Store.Brain, args[0])
	return nil
}

// --- import subcommand ---

var brainsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a brain from a YAML or JSON export",
	Long: `Import reads FILE, checks that it describes a valid brain, and stores it
under the configured brain name. An existing brain is not replaced unless
--force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrainsImport,
}

func runBrainsImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")
	name := cfg.Store.Brain

	snap, err := store.ImportFile(args[0])
	if err != nil {
		return err
	}
	e, err := brain.Restore(snap, cfg.Engine)
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if !force {
		_, err := st.Load(ctx, name)
		if err == nil {
			return fmt.Errorf("brain %q already exists (use --force to replace it)", name)
		}
		if !errors.Is(err, store.ErrBrainNotFound) {
			return err
		}
	}

	if err := st.Save(ctx, name, e.Snapshot()); err != nil {
		return err
	}
	fmt.Printf("Imported %s as brain %q (%d words known)\n", args[0], name, e.Vocabulary())
	return nil
}

// --- inspect subcommand ---

var brainsInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show a brain's words by topic score with their successors",
	Args:  cobra.NoArgs,
	RunE:  runBrainsInspect,
}

func runBrainsInspect(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	e, err := loadEngine(cmd.Context(), st, cfg.Store.Brain, false)
	if err != nil {
		return err
	}
	fmt.Printf("Brain %q: ", cfg.Store.Brain)
	e.WriteDump(os.Stdout, limit)
	return nil
}

// --- delete subcommand ---

var brainsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a stored brain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted brain %q\n", args[0])
		return nil
	},
}

func init() {
	brainsListCmd.Flags().Bool("json", false, "output the list as JSON")
	brainsExportCmd.Flags().Bool("force", false, "replace an existing file")
	brainsImportCmd.Flags().Bool("force", false, "replace an existing brain")
	brainsInspectCmd.Flags().Int("limit", 20, "maximum words to show (0 = all)")

	brainsCmd.AddCommand(brainsListCmd)
	brainsCmd.AddCommand(brainsExportCmd)
	brainsCmd.AddCommand(brainsImportCmd)
	brainsCmd.AddCommand(brainsInspectCmd)
	brainsCmd.AddCommand(brainsDeleteCmd)

	rootCmd.AddCommand(brainsCmd)
}
