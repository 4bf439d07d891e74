package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradingplatform/internal/cli"
)

func main() {
	var addr string

	root := &cobra.Command{
		Use:   "trading-cli",
		Short: "Interactive client for a trading platform server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := cli.NewClient(addr)
			repl := cli.NewREPL(client, os.Stdin, os.Stdout)
			repl.Run()
			return nil
		},
	}

	root.Flags().StringVar(&addr, "addr", "http://localhost:8080", "base URL of the trading platform server")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
