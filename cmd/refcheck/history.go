// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refcheck/internal/history"
	"github.com/pdiddy/refcheck/internal/report"
	"github.com/pdiddy/refcheck/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or clear recently checked reference batches",
	Long: `History shows the most recent distinct batches of references that were
checked, newest first. Re-check an entry with "refcheck check --from-history N".`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show stored batches, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	full, _ := cmd.Flags().GetBool("full")
	if !full {
		fmt.Fprintln(out, report.RenderHistory(entries))
		return nil
	}
	for i, e := range entries {
		fmt.Fprintf(out, "# %d  %s\n", i+1, e.CreatedAt.Local().Format("2006-01-02 15:04"))
		for _, ref := range e.References {
			fmt.Fprintln(out, ref)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// --- clear subcommand ---

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored batches",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	cfg, err := historyConfig(cmd)
	if err != nil {
		return err
	}
	unlock, err := lockDataDir(cfg.DataDir)
	if err != nil {
		return err
	}
	defer unlock()

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}

// --- helpers ---

// historyConfig returns the check config with --data-dir applied.
func historyConfig(cmd *cobra.Command) (types.CheckConfig, error) {
	return loadCheckConfig(viper.GetViper(), cmd.Flags())
}

func openHistory(cmd *cobra.Command) (*history.SQLiteStore, error) {
	cfg, err := historyConfig(cmd)
	if err != nil {
		return nil, err
	}
	return history.OpenSQLite(cfg.DataDir, cfg.History.Limit)
}

func init() {
	historyCmd.PersistentFlags().String("data-dir", types.DefaultDataDir, "directory holding history")
	historyListCmd.Flags().Bool("full", false, "print every reference of each entry")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
