package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"anchorsec/internal/detector"
	"anchorsec/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Detectors int    `json:"detectors"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat string
	versionFull   bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include commit hash and build date")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show anchorsec build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := readGlobals(cmd); err != nil {
			return err
		}
		payload := collectVersion(versionFull)
		switch strings.ToLower(versionFormat) {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), payload, versionFull)
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func collectVersion(full bool) versionPayload {
	p := versionPayload{
		Tool:      "anchorsec",
		Version:   version.String(),
		Detectors: len(detector.All(detector.Options{})),
	}
	if full {
		p.GitCommit = valueOrUnknown(version.GitCommit)
		p.BuildDate = valueOrUnknown(version.BuildDate)
	}
	return p
}

func renderVersionPretty(out io.Writer, p versionPayload, full bool) {
	fmt.Fprintf(out, "anchorsec %s (%d detectors)\n", version.Colored(), p.Detectors)
	if full {
		fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
		fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
	}
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
