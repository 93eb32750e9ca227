package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-inject/app"
	framework "github.com/km-arc/go-inject/framework/app"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var envFiles []string

var rootCmd = &cobra.Command{
	Use:           "goinject",
	Short:         "GoInject constructor-injection container",
	Long:          "GoInject resolves registered classes and their constructor dependencies, sharing singletons or building fresh object graphs on demand.",
	Version:       framework.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, ".env files to load (default .env)")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(serveCmd)
}

// bootstrap builds the application with every provider from the kernel
// registered and booted.
func bootstrap() (*framework.Application, error) {
	a, err := framework.New(
		framework.WithEnvFiles(envFiles...),
		framework.WithProviders(app.Providers()...),
	)
	if err != nil {
		return nil, err
	}
	if err := a.Boot(); err != nil {
		return nil, err
	}
	return a, nil
}
