package main

import (
	"fmt"
	"io"

	"cflat/checker-go/pkg/cliconfig"
	"cflat/checker-go/pkg/document"
	"cflat/checker-go/pkg/typecheck"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// newRootCmd builds the root command against injected writers, so tests can
// drive it without touching the real stdout/stderr.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "cflat-check <file>",
		Short:   "cflat-check statically type-checks a Cflat tree-document",
		Long:    `cflat-check reads a single JSON tree-document describing a Cflat program and reports whether it is well-typed.`,
		Version: version,
		Args:    cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0], out, errOut)
		},
	}
	return rootCmd
}

// runCheck loads the optional CLI config, decodes the input file, and runs
// the checker. Type errors are a normal, successful outcome of this command
// ("invalid: <msg>" printed, nil returned); only structural failures to even
// read a verdict (a bad config file, an undecodable document) are reported
// as command errors, so the process exits non-zero only when it could not
// produce a verdict at all.
func runCheck(path string, out, errOut io.Writer) error {
	cfg, err := cliconfig.Load(cliconfig.DefaultFileName)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return err
	}

	verdictOut := out
	if cfg.OutputStream == "stderr" {
		verdictOut = errOut
	}

	program, err := document.Load(path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		if cfg.EchoStructuralToStdout {
			fmt.Fprintf(out, "structural: %v\n", err)
		}
		return err
	}

	if typeErr := typecheck.New().Check(program); typeErr != nil {
		fmt.Fprintf(verdictOut, "invalid: %s\n", typeErr)
		return nil
	}

	fmt.Fprintln(verdictOut, "valid")
	return nil
}
