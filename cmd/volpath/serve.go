package main

import (
	"github.com/spf13/cobra"

	"VolPath/pkg/server"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := server.NewApp(serveConfigPath)
		if err != nil {
			return err
		}
		return app.Run()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "config/config.yaml", "path to config file")
}
