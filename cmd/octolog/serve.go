package main

import (
	"github.com/spf13/cobra"

	"github.com/HorseArcher567/octolog/pkg/app"
	"github.com/HorseArcher567/octolog/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host a document with reload, receiver, admin API and health",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		doc, _ := cmd.Flags().GetString("document")

		var cfg app.Config
		if err := config.Unmarshal(path, &cfg); err != nil {
			return err
		}
		if doc != "" {
			cfg.Document = doc
		}

		a, err := app.New(&cfg)
		if err != nil {
			return err
		}
		return a.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringP("config", "c", "octolog.yaml", "framework config file (yaml, json or toml)")
	serveCmd.Flags().StringP("document", "d", "", "override the document path from the config file")
}
