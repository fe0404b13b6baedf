package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swipestack/internal/server"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

type serveOptions struct {
	settings    settingsFlags
	addr        string
	interval    time.Duration
	maxSessions int
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve card stacks over HTTP",
		Long: `Start an HTTP server where each session owns a card stack. Clients post
pointer events and poll frames; settle animations run on the server.

Routes:
  POST   /sessions
  GET    /sessions/{id}
  POST   /sessions/{id}/drag/start | drag/update | drag/end
  POST   /sessions/{id}/swipe | reset
  GET    /sessions/{id}/frame | frame.svg
  DELETE /sessions/{id}
  GET    /healthz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.settings.load(cmd)
			if err != nil {
				return err
			}
			srv := server.New(server.Options{
				Settings:      s,
				Logger:        loggerFromContext(cmd.Context()),
				FrameInterval: opts.interval,
				MaxSessions:   opts.maxSessions,
			})
			if err := srv.ListenAndServe(cmd.Context(), opts.addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return cmd.Context().Err()
		},
	}

	opts.settings.register(cmd)
	fl := cmd.Flags()
	fl.StringVar(&opts.addr, "addr", ":8080", "listen address")
	fl.DurationVar(&opts.interval, "interval", swipe.DefaultFrameInterval, "animation tick period")
	fl.IntVar(&opts.maxSessions, "max-sessions", 100, "cap on live sessions (0 = none)")
	return cmd
}
