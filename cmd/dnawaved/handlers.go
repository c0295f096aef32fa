package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dnawave/dnawave/pkg/logging"
)

// handleGetStatus returns daemon status via socket
func (d *Daemon) handleGetStatus(c *gin.Context) {
	status, err := d.socketClient.GetStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "running",
		"version":       status.Version,
		"sample_rate":   status.SampleRate,
		"note_duration": status.NoteDuration,
		"uptime":        status.Uptime,
		"jobs_run":      status.JobsRun,
	})
}

// handleGetJobs returns recent job history via socket
func (d *Daemon) handleGetJobs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		limit = 50
	}

	jobs, err := d.socketClient.GetJobs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleEncode encodes a DNA sequence to a WAV file via socket
func (d *Daemon) handleEncode(c *gin.Context) {
	var req struct {
		Sequence string `json:"sequence" binding:"required"`
		Output   string `json:"output"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := d.socketClient.Encode(req.Sequence, req.Output)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "encoded",
		"job":    job,
	})
}

// handleDecode decodes a WAV recording back to a DNA sequence via socket
func (d *Daemon) handleDecode(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sequence, job, err := d.socketClient.Decode(req.Path)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sequence": sequence,
		"status":   job.Status,
		"job":      job,
	})
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// handleJobsWebSocket streams completed jobs to WebSocket clients
func (d *Daemon) handleJobsWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Errorf("web", "WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	logging.Info("web", "Jobs WebSocket client connected")

	jobs := d.coreEngine.Subscribe()
	defer d.coreEngine.Unsubscribe(jobs)

	// Periodic pings keep intermediaries from dropping idle
	// connections between jobs.
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := conn.WriteJSON(gin.H{
				"type": "job_completed",
				"job":  job,
			}); err != nil {
				logging.Errorf("web", "WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}

		case <-d.ctx.Done():
			logging.Info("web", "Jobs WebSocket client disconnected (shutdown)")
			return
		}
	}
}
