package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"anchorsec/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "anchorsec",
	Short: "Static security analyzer for Anchor programs",
	Long: `anchorsec scans Anchor (Solana) Rust sources for missing signers,
unchecked mutations, unsafe arithmetic and other account-validation mistakes`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errFindings makes the process exit with status 1 without printing anything:
// the findings themselves were already reported.
var errFindings = errors.New("error-severity findings")

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.String()

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = all)")
	rootCmd.PersistentFlags().String("config", "", "config file (default: anchorsec.toml searched upward)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to this file")
}

// main runs the root command; Ctrl-C cancels scans and stops watch.
// Any error, including error-severity findings, exits with status 1.
func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
