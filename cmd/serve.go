package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/launchpad/internal/httpapi"
	"github.com/Mohsinsiddi/launchpad/internal/ui"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only JSON status API",
	Long: `Serve presale listings and live status over HTTP:

  GET /healthcheck
  GET /presales
  GET /presales/:address
  GET /presales/:address/status
  GET /presales/:address/contributors`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.HTTPAddr
		}
		srv := httpapi.New(newBackend(), transports(), log, httpapi.WithVersion(Version))
		fmt.Println(ui.Info("Listening on http://" + addr))
		return srv.Run(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: http_addr from config)")
}
