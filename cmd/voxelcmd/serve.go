package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/network"
)

var (
	listenAddr string
	hubToken   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a chat hub other consoles can connect to",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Network.ListenAddr
		if listenAddr != "" {
			addr = listenAddr
		}
		token := hubToken
		if token == "" {
			token = os.Getenv("VOXELCMD_HUB_TOKEN")
		}

		hub := network.NewHub(token, logger.Named("hub"))
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()
		logger.Info("hub listening", zap.String("addr", addr), zap.Bool("token", token != ""))

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default network.listen_addr)")
	serveCmd.Flags().StringVar(&hubToken, "token", "", "require this bearer token (default $VOXELCMD_HUB_TOKEN)")
}
