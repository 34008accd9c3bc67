package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/vetta/bootstrap"
	"github.com/kbukum/vetta/config"
	"github.com/kbukum/vetta/version"
)

type cli struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "vetta",
		Short:         "Institutional-grade Financial Analysis Engine",
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("socket", config.DefaultSocket, "Path to the speech service unix socket (env: WHISPER_SOCK)")
	pf.StringVar(&c.configFile, "config", "", "Path to config.yml")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(newEarningsCmd(c), newCheckCmd(c), newVersionCmd())
	return root
}

// app loads the configuration with cmd's flags applied and bootstraps the process.
func (c *cli) app(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg, err := config.Load(c.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	return bootstrap.NewApp(cmd.Context(), cfg)
}
