package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scadasync/internal/server"
	"scadasync/internal/util"
)

var (
	servePort int
	serveDev  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		// config.toml 中显式写了端口时以配置为准
		if cmd.Flags().Changed("port") && !loadInfo.PortSpecified {
			appCfg.Server.Port = servePort
		}
		if serveDev {
			appCfg.Server.DevMode = true
		}

		srv, err := server.NewServer(appCfg, logger)
		if err != nil {
			return err
		}
		defer srv.Close()

		addr := fmt.Sprintf(":%d", appCfg.Server.Port)
		url := fmt.Sprintf("http://localhost:%d", appCfg.Server.Port)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", zap.Int("port", appCfg.Server.Port))
			errCh <- srv.Run(addr)
		}()

		if !appCfg.Server.DevMode {
			if err := util.OpenBrowserWithFallback(url); err != nil {
				logger.Warn("could not open browser, visit manually", zap.String("url", url))
			}
		} else {
			logger.Info("dev mode", zap.String("url", url))
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-quit:
			logger.Info("shutting down")
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (ignored when config.toml sets server.port)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "development mode (do not open the browser)")
}
