package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Pawissanan/Get-YouTube-View/infrastructure/configuration"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/metrics"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/realtime"
	httpHandler "github.com/Pawissanan/Get-YouTube-View/interfaces/http"
	"github.com/Pawissanan/Get-YouTube-View/server"
	"github.com/Pawissanan/Get-YouTube-View/usecase"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := configuration.C.App
	youtubeConfig := configuration.GetYouTubeConfig()
	logger.GetLogger().WithFields(map[string]interface{}{
		"hasAPIKey":       youtubeConfig.APIKey != "",
		"hasAccessToken":  youtubeConfig.AccessToken != "",
		"hasRefreshToken": youtubeConfig.RefreshToken != "",
		"clientIDSet":     youtubeConfig.ClientID != "",
	}).Info("Loaded YouTube configuration state")
	if !youtubeConfig.HasCredential() {
		logger.GetLogger().Info("No default YouTube credential configured - every request must carry an API key")
	}

	m := metrics.New()
	deps := server.NewDependencies(ctx, configuration.C, youtubeConfig, m)
	defer deps.Close()

	extractionUsecase := usecase.NewExtractionUsecase(deps.YouTubeFactory())
	for _, n := range deps.Notifiers {
		extractionUsecase.WithNotifier(n)
	}

	hub := realtime.NewProgressHub()
	extractionHandler := httpHandler.NewExtractionHandler(extractionUsecase, deps.Sheet, hub, httpHandler.ExtractionDefaults{
		APIKey:    youtubeConfig.APIKey,
		HasToken:  youtubeConfig.HasToken(),
		MaxVideos: configuration.C.Extraction.DefaultMaxVideos,
	})
	healthHandler := httpHandler.NewHealthHandler(deps.HealthChecks())

	router := server.InitiateRouter(server.RouterConfig{
		CorsOrigins: app.CorsOrigins,
		SecretKey:   app.SecretKey,
	}, extractionHandler, healthHandler, m)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	logger.GetLogger().WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		var err error
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
			err = httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
		} else {
			if app.TLSEnabled {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			}
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.GetLogger().Info("Application shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
