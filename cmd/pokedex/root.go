package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/listenupapp/pokedex/internal/app"
	"github.com/listenupapp/pokedex/internal/config"
	"github.com/listenupapp/pokedex/internal/di"
	"github.com/listenupapp/pokedex/internal/di/providers"
	"github.com/listenupapp/pokedex/internal/logger"
	"github.com/listenupapp/pokedex/internal/tui"
)

// cli carries what every command shares: the streams and the container
// built in the persistent pre-run.
type cli struct {
	in       io.Reader
	out      io.Writer
	injector *do.RootScope
}

func (c *cli) session() *app.Session {
	return do.MustInvoke[*app.Session](c.injector)
}

func (c *cli) config() *config.Config {
	return do.MustInvoke[*config.Config](c.injector)
}

func (c *cli) logger() *logger.Logger {
	return do.MustInvoke[*logger.Logger](c.injector)
}

// run executes the command line in args and always shuts the container
// down, whether or not the command succeeded.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	c := &cli{in: in, out: out}
	rootCmd := c.rootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetErr(errOut)

	defer c.shutdown()
	return rootCmd.ExecuteContext(ctx)
}

func (c *cli) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pokedex",
		Short:        "Browse the Pokemon catalog and manage your box",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         c.runTUI,
	}
	rootCmd.SetIn(c.in)
	rootCmd.SetOut(c.out)

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		c.injector = di.NewContainer(cmd.Flags(), cmd == rootCmd)
		return di.Bootstrap(c.injector)
	}

	rootCmd.AddCommand(
		catalogCommand(c),
		boxCommand(c),
	)

	return rootCmd
}

// shutdown stops the index build and token watcher and closes the log file.
func (c *cli) shutdown() {
	if c.injector == nil {
		return
	}
	_ = c.injector.Shutdown()
	c.injector = nil
}

func (c *cli) runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := c.config()
	log := c.logger()

	// Start following the token file for the lifetime of the UI.
	if _, err := do.Invoke[*providers.TokenWatcherHandle](c.injector); err != nil {
		return err
	}

	model := tui.New(ctx, c.session(), cfg.Catalog.PageSize, log.Logger)
	defer model.Close()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}

	log.Info("Goodbye")
	return nil
}
