package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/infra/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status|redo|reset|version] [args...]",
	Short: "Run database migrations",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) > 0 {
			command, args = args[0], args[1:]
		}

		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool, command, args...); err != nil {
			return err
		}

		log.Info("migrations done", zap.String("command", command))
		return nil
	},
}
