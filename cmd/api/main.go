// Package main is the entry point for the library service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Library Service API
// @version 1.0
// @description Accounts, catalog and borrow/return workflow of the library
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "library-service",
		Short:         "Library management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, newMigrateCommand(), newCreateAdminCommand())
	return root
}
