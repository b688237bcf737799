package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "pawfinder",
		Short:         "Adoptable animal browser",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath, false)
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (YAML)")

	var migrateFirst bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server and the token refresh job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath, migrateFirst)
		},
	}
	serveCmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply the database schema before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), configPath)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pawfinder %s\n", version)
		},
	}

	cmd.AddCommand(serveCmd, migrateCmd, versionCmd)
	return cmd
}
