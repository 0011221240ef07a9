package cli

import (
	"sync/atomic"

	"github.com/cdeia/observaciones/config"
	"github.com/cdeia/observaciones/internal/monitoring"
	"github.com/cdeia/observaciones/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const DEFAULT_SERVER_ADDR = ":8080"

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the observation form and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.AppEnv() == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		svc := newService()

		var healthy atomic.Bool
		go monitoring.MonitorHealth(cmd.Context(), svc.Prober(), monitoring.HEALTHCHECK_INTERVAL, &healthy)

		return server.New(svc, &healthy).Run(cmd.Context(), listenAddr(cmd))
	},
}

// listenAddr prefers --addr, then SERVER_ADDR. SERVER_ADDR is read at run time,
// after the env file has been loaded.
func listenAddr(cmd *cobra.Command) string {
	if cmd.Flags().Changed("addr") {
		return serveAddr
	}
	return config.GetEnv("SERVER_ADDR", DEFAULT_SERVER_ADDR)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", DEFAULT_SERVER_ADDR, "listen address (default from SERVER_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
