// Command pizzeria runs and administers the pizzeria order API.
//
//	pizzeria serve             start the HTTP API (and gRPC health when GRPC_PORT is set)
//	pizzeria migrate           run pending migrations
//	pizzeria migrate:rollback  roll back the last batch
//	pizzeria migrate:status    show migration state
//	pizzeria seed              create default privileges and the admin user
//	pizzeria route:list        print the named HTTP routes
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Registers the schema migrations with the runner.
	_ "github.com/shashiranjanraj/pizzeria/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "pizzeria",
	Short:         "Pizzeria order API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
