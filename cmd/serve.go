package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/api"
	"github.com/twiced-technology-gmbh/taskflow/internal/auth"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Starts a JSON HTTP API over the configured backend. Clients log in with
POST /auth/login and send the returned token as a bearer token.
Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	serveCmd.Flags().Bool("debug", false, "run gin in debug mode")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.API.Addr
	}
	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Remote clients carry their own tokens; the local session file stays untouched.
	srv := api.New(api.Deps{
		Auth: auth.NewService(a.store, auth.Options{
			Secret: a.cfg.Session.Secret,
			TTL:    a.cfg.SessionTTL(),
			Log:    a.log,
		}),
		Tasks:       a.store,
		Defaults:    a.defaults(),
		View:        a.cfg.ViewOptions(),
		Log:         a.log,
		Loc:         a.loc,
		CORSOrigins: a.cfg.API.CORSOrigins,
	})

	output.Messagef(os.Stderr, "Serving taskflow API on http://%s (Ctrl+C to stop)", addr)
	return srv.Run(ctx, addr)
}
