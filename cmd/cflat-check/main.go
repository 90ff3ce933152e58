// Command cflat-check statically type-checks a single Cflat tree-document
// file and reports whether the program it describes is well-typed.
package main

import "os"

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
