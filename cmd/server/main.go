package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title           IPL Prediction Portal API
// @version         1.0
// @description     Match polls, voting, settlement and leaderboards for IPL fans
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "iplportal",
		Short:   "IPL Prediction Portal backend",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to the YAML config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(recomputeRanksCmd(&configPath))
	rootCmd.AddCommand(createAdminCmd(&configPath))
	rootCmd.AddCommand(seedTeamsCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.yaml"
}
