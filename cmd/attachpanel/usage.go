package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/csheth/attachpanel/internal/config"
	"github.com/csheth/attachpanel/internal/panel"
	"github.com/csheth/attachpanel/internal/usage"
)

var resetUsage bool

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the launch history that orders the grid page",
	Args:  cobra.NoArgs,
	RunE:  runUsage,
}

func init() {
	usageCmd.Flags().BoolVar(&resetUsage, "reset", false, "clear the launch history")
	rootCmd.AddCommand(usageCmd)
}

func runUsage(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := usage.Open(cfg.Usage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if resetUsage {
		if err := store.Reset(panel.CallerTag); err != nil {
			return err
		}
		fmt.Fprintln(out, "Launch history cleared.")
		return nil
	}
	entries, err := store.Entries(panel.CallerTag)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No launches recorded.")
		return nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RANK", "TARGET", "LAUNCHES", "LAST USED")
	for i, e := range entries {
		t.Row(strconv.Itoa(i+1), e.Target, strconv.Itoa(e.Count), e.LastUsed.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(out, t.Render())
	return nil
}
