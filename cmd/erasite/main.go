// Command erasite runs the game design history site and its maintenance
// tasks.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/erasite"
)

// version is set at build time via ldflags.
var version = "dev"

var configPath string

var logger = log.New("erasite")

var rootCmd = &cobra.Command{
	Use:   "erasite",
	Short: "История гейм-дизайна: сайт и служебные команды",
	Long: `erasite serves the game design history site.

Configuration comes from the environment (a .env file in the working
directory is loaded first) or from a YAML file passed with --config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables win.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the erasite version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("erasite %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML or .env config file")
	rootCmd.AddCommand(serveCmd, initDBCmd, createAdminCmd, versionCmd)
}

func loadConfig() (erasite.SiteConfig, error) {
	return erasite.LoadConfig(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
