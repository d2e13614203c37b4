package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/cirun/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Restore caches, install, build and run the tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			dryRun, _ := flags.GetBool("dry-run")
			outputMode, _ := flags.GetString("output-mode")
			ci, _ := flags.GetBool("ci")

			// If --ci is set, override output-mode to "linear"
			if ci {
				outputMode = "linear"
			}

			return c.app.Run(cmd.Context(), app.RunOptions{
				Flags: app.InputFlags{
					Percy:    changedBool(flags, "percy"),
					RunTests: changedBool(flags, "run-tests"),
					Record:   changedBool(flags, "record"),
					Parallel: changedBool(flags, "parallel"),
					Headed:   changedBool(flags, "headed"),
					Group:    changedString(flags, "group"),
				},
				DryRun:     dryRun,
				OutputMode: outputMode,
			})
		},
	}

	cmd.Flags().Bool("percy", false, "Install Percy and wrap the test run in percy exec")
	cmd.Flags().Bool("run-tests", true, "Run the test suite after building")
	cmd.Flags().Bool("record", false, "Record the run to the Cypress Dashboard")
	cmd.Flags().Bool("parallel", false, "Split the run across parallel jobs")
	cmd.Flags().Bool("headed", false, "Run the browser in headed mode")
	cmd.Flags().String("group", "", "Group name for the recorded run")
	cmd.Flags().Bool("dry-run", false, "Print the commands instead of running them and skip the cache")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, linear, or github")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	return cmd
}

// changedBool returns the flag value when it was set on the command line.
func changedBool(flags *pflag.FlagSet, name string) *bool {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetBool(name)
	return &v
}

// changedString returns the flag value when it was set on the command line.
func changedString(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetString(name)
	return &v
}
