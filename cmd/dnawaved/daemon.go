package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dnawave/dnawave/pkg/client"
	"github.com/dnawave/dnawave/pkg/config"
	"github.com/dnawave/dnawave/pkg/engine"
	"github.com/dnawave/dnawave/pkg/logging"
)

// Daemon hosts the core engine and the web API in one process. The web
// handlers talk to the engine over its Unix socket like any other
// client; only the WebSocket job feed taps the engine directly.
type Daemon struct {
	config *config.Config
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	coreEngine   *engine.CoreEngine
	socketClient *client.SocketClient
	webServer    *http.Server

	socketPath string
}

// NewDaemon creates a new daemon instance
func NewDaemon(cfg *config.Config) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	socketPath := cfg.API.UnixSocket

	daemon := &Daemon{
		config:       cfg,
		ctx:          ctx,
		cancel:       cancel,
		socketPath:   socketPath,
		socketClient: client.NewSocketClient(socketPath),
	}

	daemon.coreEngine = engine.NewCoreEngine(cfg, socketPath)
	daemon.setupWebServer()

	return daemon, nil
}

// setupWebServer configures the gin router and HTTP server
func (d *Daemon) setupWebServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/status", d.handleGetStatus)
		api.GET("/jobs", d.handleGetJobs)
		api.POST("/encode", d.handleEncode)
		api.POST("/decode", d.handleDecode)
	}

	router.GET("/ws/jobs", d.handleJobsWebSocket)

	d.webServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", d.config.Web.BindAddress, d.config.Web.Port),
		Handler: router,
	}
}

// Start starts the daemon
func (d *Daemon) Start() error {
	logging.Info("daemon", "Starting dnawaved daemon...")

	// Start core engine first
	if err := d.coreEngine.Start(); err != nil {
		return fmt.Errorf("failed to start core engine: %w", err)
	}

	// Wait a moment for socket to be ready
	time.Sleep(100 * time.Millisecond)

	if !d.socketClient.IsConnected() {
		return fmt.Errorf("failed to connect to core engine socket")
	}

	// Start web server
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		logging.Infof("daemon", "Starting web server on %s", d.webServer.Addr)
		if err := d.webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Errorf("daemon", "Web server error: %v", err)
		}
	}()

	return nil
}

// Stop stops the daemon gracefully
func (d *Daemon) Stop() error {
	logging.Info("daemon", "Stopping daemon...")

	d.cancel()

	// Shutdown web server
	if d.webServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.webServer.Shutdown(ctx); err != nil {
			logging.Errorf("daemon", "Web server shutdown error: %v", err)
		}
	}

	// Stop core engine
	if d.coreEngine != nil {
		if err := d.coreEngine.Stop(); err != nil {
			logging.Errorf("daemon", "Core engine shutdown error: %v", err)
		}
	}

	d.wg.Wait()
	return nil
}
