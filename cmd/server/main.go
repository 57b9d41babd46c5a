package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/netpoll"
	"github.com/spf13/cobra"

	_ "github.com/PeronGH/SydneyWeb/docs" // swagger docs
	"github.com/PeronGH/SydneyWeb/internal/config"
	"github.com/PeronGH/SydneyWeb/internal/handler"
	"github.com/PeronGH/SydneyWeb/internal/infrastructure/sydney"
	"github.com/PeronGH/SydneyWeb/internal/router"
	"github.com/PeronGH/SydneyWeb/internal/usecase"
	"github.com/PeronGH/SydneyWeb/pkg/logger"
)

//	@title			SydneyWeb
//	@version		0.1.0
//	@description	HTTP gateway for the Bing conversational backend, streaming translated chat events over SSE
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "sydney-server",
	Short: "SydneyWeb chat gateway server",
	Long: `SydneyWeb is a high-performance HTTP server built with the Hertz framework.
It accepts chat turns, relays them to the Bing conversational backend and
streams the translated output events back over Server-Sent Events.`,
	Version: version,
	Run:     runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	slog.Info("SydneyWeb starting...",
		"version", version,
		"config", cfgFile,
	)

	// Route Hertz's own logging through slog.
	hertzLogger := logger.NewHertzSlogAdapter(slog.Default())
	hlog.SetLogger(hertzLogger)

	upstream, err := sydney.NewClient(cfg.Upstream, slog.Default())
	if err != nil {
		slog.Error("failed to create upstream client", "error", err)
		os.Exit(1)
	}

	chatUsecase := usecase.NewChatUsecase(upstream, slog.Default())
	chatHandler := handler.NewChatHandler(chatUsecase, slog.Default())
	healthHandler := handler.NewHealthHandler()

	// Client disconnect sensing lets a dropped caller cancel its
	// upstream stream instead of draining it to completion.
	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.Server.ReadTimeout),
		server.WithWriteTimeout(cfg.Server.WriteTimeout),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize*1024*1024),
		server.WithTransport(netpoll.NewTransporter),
		server.WithSenseClientDisconnection(true),
	)

	router.Setup(h, cfg, chatHandler, healthHandler)

	slog.Info("server started successfully",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
	)

	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
