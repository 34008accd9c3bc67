package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/vetta/observability"
)

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the speech service socket is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			health := app.Health(cmd.Context())
			newRenderer(cmd.OutOrStdout()).Health(health)
			if health.Status == observability.HealthStatusDown {
				return reportedError{fmt.Errorf("speech service unavailable")}
			}
			return nil
		},
	}
}
