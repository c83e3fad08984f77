package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddStepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-step <app> <text>...",
		Short: "Append a deployment step to an application's checklist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			text := strings.Join(args[1:], " ")
			step, err := globalStore.AppendDeploymentStep(name, text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: step %d added\n", name, step.Position)
			return nil
		},
	}
}

func newStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps <app>",
		Short: "Show an application's deployment checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := globalStore.ListDeploymentSteps(args[0])
			if err != nil {
				return err
			}
			if len(steps) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no deployment steps defined\n", args[0])
				return nil
			}
			for _, s := range steps {
				fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s\n", s.Position, s.Text)
			}
			return nil
		},
	}
}
