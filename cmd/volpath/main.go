package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "volpath",
	Short: "Constrained intraday price-path generator",
	Long: `volpath generates stochastic intraday price paths for a volatility
index, pinned to observed session bounds: open, close and the daily
high/low band. Run it as an HTTP service or as a one-shot generator.`,
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
