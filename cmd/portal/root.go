package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/config"
	"github.com/aliskhannn/uniportal/internal/logger"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "portal",
	Short:         "University portal study bot",
	Long:          "portal runs the university portal Telegram bot and manages its database.",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("config")

		var err error
		cfg, err = config.Load(dir)
		if err != nil {
			return err
		}

		log, err = logger.New(cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "./config", "Directory containing config.yaml")

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ranksCmd)
}
