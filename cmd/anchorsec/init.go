package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"anchorsec/internal/config"
	"anchorsec/internal/detector"
	"anchorsec/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default anchorsec.toml",
	Long: `Write anchorsec.toml listing every detector with its default state.
Without [dir] the file goes to the enclosing Anchor workspace root, or the
current directory when there is none. An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target, err := initTarget(args)
	if err != nil {
		return err
	}
	st, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path, err := config.Write(target, detector.Default(detector.Options{}))
	if errors.Is(err, config.ErrExists) {
		return fmt.Errorf("already initialized: %s exists", path)
	}
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}

func initTarget(args []string) (string, error) {
	if len(args) > 0 && args[0] != "." {
		return filepath.Abs(args[0])
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	// FindWorkspaceRoot падает обратно на wd, если Anchor.toml нет
	root, err := project.FindWorkspaceRoot(wd)
	if err != nil {
		return wd, nil
	}
	return root, nil
}
