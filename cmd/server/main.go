package main

import (
	"os"

	"github.com/jrsteele09/go-social-auth/internal/config"
	"github.com/jrsteele09/go-social-auth/internal/db/migrate"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "social-auth",
	Short: "Session authentication service",
	Long:  "Issues, rotates and revokes access and refresh credentials for the social backend.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})
	rootCmd.AddCommand(newMigrateCommand())
}

func newMigrateCommand() *cobra.Command {
	var direction string
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := migrate.Run(cfg.DatabaseURL, direction); err != nil {
				return err
			}
			cmd.Printf("Migrations applied (%s)\n", direction)
			return nil
		},
	}
	migrateCmd.Flags().StringVar(&direction, "direction", migrate.DirectionUp, "Migration direction: up or down")
	return migrateCmd
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("social-auth exited with error")
		os.Exit(1)
	}
}
