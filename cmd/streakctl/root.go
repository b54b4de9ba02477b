package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-fit/internal/logging"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "streakctl",
		Short:         "streakctl computes workout, nutrition and water streaks offline",
		Long:          "streakctl reads a Kanso Fit data export or local store and reports streaks, consistency and milestones.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logging.Setup(logging.LoggerSetupParams{LogToStdout: false, LogLevel: level})
			log.SetOutput(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newReportCmd())
	return root
}
