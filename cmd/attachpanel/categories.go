package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/csheth/attachpanel/internal/capability"
	"github.com/csheth/attachpanel/internal/config"
	"github.com/csheth/attachpanel/internal/panel"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the content categories and whether this machine can offer them",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	enabled := make(map[panel.Category]bool)
	list, err := cfg.CategoryList()
	if err != nil {
		return err
	}
	for _, c := range list {
		enabled[c] = true
	}
	policy := capability.New(cfg.Capabilities)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CATEGORY", "KIND", "TAB", "TARGET", "SELECTION", "ENABLED", "AVAILABLE")
	for _, c := range panel.Categories() {
		d, _ := panel.Describe(c)
		t.Row(d.Name, d.Kind.String(), d.TabLabel, d.LaunchTarget, d.SelectionMode,
			strconv.FormatBool(enabled[c]), availability(policy, d))
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func availability(p *capability.Policy, d panel.Descriptor) string {
	if d.Feature != "" {
		ok, err := p.HasFeature(d.Feature)
		switch {
		case err != nil:
			return "unknown (" + d.Feature + ")"
		case !ok:
			return "no " + d.Feature
		}
	}
	if d.Privilege != "" {
		if err := p.CheckPrivilege(d.Privilege); err != nil {
			return "denied"
		}
	}
	return "yes"
}
