package main

import (
	"fmt"
	"strings"

	"github.com/atomicstack/kiosk-imagemap/internal/app"
	"github.com/atomicstack/kiosk-imagemap/internal/card"
	"github.com/atomicstack/kiosk-imagemap/internal/config"
	"github.com/atomicstack/kiosk-imagemap/internal/format/table"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of " + config.Name,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.Name, Version)
		},
	}
}

func newCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cards [page.html]",
		Short: "List the cards a page defines and where they are visible",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if err := config.ValidateRun(cfg); err != nil {
				return configError{err}
			}
			doc, err := app.LoadDocument(cfg.App)
			if err != nil {
				return err
			}
			d, err := app.NewDispatcher(cfg.App, doc)
			if err != nil {
				return configError{err}
			}
			nav := d.Navigator()

			rows := [][]string{{"ID", "KIND", "LABEL", "TARGET", "VISIBLE ON", "ROOT", "POSITION"}}
			for _, c := range nav.Cards() {
				root := "-"
				if nav.IsVisible(c.ID) {
					root = "yes"
				}
				rows = append(rows, []string{
					c.ID,
					c.Kind.String(),
					c.Label(),
					dash(string(c.SwitchImage)),
					visibleOn(c),
					root,
					position(c.Position),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (root %s, %d cards)\n", titleOf(doc.Title), doc.RootImage, len(doc.Cards))
			for _, line := range table.Format(rows, table.Options{MaxWidth: 40}) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	var writePath string
	cmd := &cobra.Command{
		Use:   "config [page.html]",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if writePath != "" {
				if err := cfg.SaveFile(writePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", writePath)
				return nil
			}
			return cfg.Save(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&writePath, "write", "w", "", "write the configuration to this file instead of stdout")
	return cmd
}

func visibleOn(c card.Card) string {
	switch {
	case c.VisibleOn != "":
		return string(c.VisibleOn)
	case c.VisiblePrefix != "":
		return c.VisiblePrefix + "*"
	}
	return "-"
}

func position(p card.Position) string {
	if !p.Set {
		return "-"
	}
	parts := []string{fmt.Sprintf("%g%%,%g%%", p.Left, p.Top)}
	if p.Width > 0 || p.Height > 0 {
		parts = append(parts, fmt.Sprintf("%gx%g", p.Width, p.Height))
	}
	return strings.Join(parts, " ")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func titleOf(title string) string {
	if title == "" {
		return "untitled page"
	}
	return title
}
