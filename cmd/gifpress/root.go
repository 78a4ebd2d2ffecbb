package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "gifpress",
		Short: "Convert videos to optimized animated GIFs",
		Long: `gifpress drives ffmpeg to turn video clips into palette-optimized
animated GIFs, retrying with reduced settings until the output fits
under a size ceiling.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(
		newConvertCommand(ctx),
		newProbeCommand(ctx),
		newPresetsCommand(),
		newHistoryCommand(ctx),
		newDoctorCommand(ctx),
		newConfigCommand(ctx),
		newVersionCommand(),
	)

	return rootCmd
}
