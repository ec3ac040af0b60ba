package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"anchorsec/internal/detector"
	"anchorsec/internal/diag"
	"anchorsec/internal/signergraph"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the detectors and their effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	rulesCmd.Flags().Bool("long", false, "include detector descriptions")
	addDetectorFlags(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	long, err := cmd.Flags().GetBool("long")
	if err != nil {
		return fmt.Errorf("failed to get long flag: %w", err)
	}
	cfg, err := loadConfig(cmd, g, ".")
	if err != nil {
		return err
	}
	reg := registryFactory(cfg, detector.Options{SignerCache: signergraph.NewCache(nil)}, cmd.ErrOrStderr())()

	switch strings.ToLower(format) {
	case "json":
		return renderRulesJSON(cmd.OutOrStdout(), reg.ListDetectors())
	case "pretty":
		return renderRulesPretty(cmd.OutOrStdout(), reg.ListDetectors(), long)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func renderRulesJSON(out io.Writer, rules []detector.Listing) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rules)
}

var severityColors = map[diag.Severity]*color.Color{
	diag.SevError:   color.New(color.FgRed, color.Bold),
	diag.SevWarning: color.New(color.FgYellow, color.Bold),
	diag.SevInfo:    color.New(color.FgBlue),
	diag.SevHint:    color.New(color.FgCyan),
}

func renderRulesPretty(out io.Writer, rules []detector.Listing, long bool) error {
	headers := []string{"ID", "SEVERITY", "ENABLED", "NAME"}
	if long {
		headers = append(headers, "DESCRIPTION")
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 { // v0.12: строка 0 - заголовок
				return lipgloss.NewStyle().Bold(true).PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
	for _, r := range rules {
		sev := severityColors[r.Severity].Sprint(r.Severity.String())
		if r.Override != nil {
			sev += "*"
		}
		enabled := "yes"
		if !r.Enabled {
			enabled = "no"
		}
		row := []string{r.ID, sev, enabled, r.Name}
		if long {
			row = append(row, r.Description)
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintln(out, t.String())
	return err
}
