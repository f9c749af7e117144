package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/ambient"
	"github.com/phanxgames/ambient/termhost"
)

func newTermCmd(a *app) *cobra.Command {
	var (
		mute     bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Run the scene in the terminal",
		Long: `term draws the network and bursts with tcell. Click or press space to
spawn a burst; q, Esc or Ctrl-C quits. Logs are discarded unless --log-file
is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			screen, err := tcell.NewScreen()
			if err != nil {
				return errors.Wrap(err, "open terminal")
			}
			if err := screen.Init(); err != nil {
				return errors.Wrap(err, "init terminal")
			}

			world, overlay := ambient.NewLayer(), ambient.NewLayer()
			e, err := a.newEngine(world, overlay, nil)
			if err != nil {
				screen.Fini()
				return err
			}

			h := termhost.New(screen, e, world, overlay,
				termhost.WithLogger(a.log),
				termhost.WithChime(newChime(mute, a.log)),
			)
			defer h.Close()

			reload := a.watch()
			h.OnUpdate = func() { reload.apply(e) }

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := h.Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mute, "mute", false, "do not chime on bursts")
	cmd.Flags().DurationVar(&interval, "interval", termhost.DefaultInterval, "frame interval")
	return cmd
}

// newChime opens the speaker, or falls back to silence.
func newChime(mute bool, log *zap.Logger) termhost.Chime {
	if mute {
		return termhost.NopChime{}
	}
	c, err := termhost.NewBeepChime()
	if err != nil {
		log.Warn("audio unavailable, bursts are silent", zap.Error(err))
		return termhost.NopChime{}
	}
	return c
}
