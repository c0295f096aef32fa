package engine

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/dnawave/dnawave/pkg/codec"
	"github.com/dnawave/dnawave/pkg/config"
	"github.com/dnawave/dnawave/pkg/fasta"
	"github.com/dnawave/dnawave/pkg/protocol"
	"github.com/dnawave/dnawave/pkg/storage"
)

// Version of the engine protocol surface.
const Version = "0.1.0-dev"

// CoreEngine owns the codec and job history and serves the line-based
// command protocol over a Unix domain socket.
type CoreEngine struct {
	config     *config.Config
	socketPath string
	listener   net.Listener
	running    bool
	mutex      sync.RWMutex
	startTime  time.Time

	codec *codec.Codec
	store *storage.JobStore

	jobsRun int

	// Completed-job subscribers (the daemon's WebSocket feed).
	subscribers map[chan protocol.Job]struct{}
	subMutex    sync.Mutex
}

// NewCoreEngine creates a new core engine
func NewCoreEngine(cfg *config.Config, socketPath string) *CoreEngine {
	dnaCodec := codec.New()
	dnaCodec.SampleRate = cfg.Codec.SampleRate
	dnaCodec.NoteDuration = cfg.Codec.NoteDuration
	dnaCodec.Volume = cfg.Codec.NoteVolume

	return &CoreEngine{
		config:      cfg,
		socketPath:  socketPath,
		startTime:   time.Now(),
		codec:       dnaCodec,
		subscribers: make(map[chan protocol.Job]struct{}),
	}
}

// Start starts the core engine and Unix socket server
func (e *CoreEngine) Start() error {
	e.mutex.Lock()
	e.running = true
	e.mutex.Unlock()

	store, err := storage.NewJobStore(e.config.Storage.DatabasePath, e.config.Storage.MaxJobs)
	if err != nil {
		return fmt.Errorf("failed to open job store: %w", err)
	}
	e.store = store

	// Remove existing socket file
	os.Remove(e.socketPath)

	listener, err := net.Listen("unix", e.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create Unix socket: %w", err)
	}
	e.listener = listener

	if err := os.Chmod(e.socketPath, 0660); err != nil {
		log.Printf("Warning: failed to set socket permissions: %v", err)
	}

	log.Printf("Core engine listening on %s", e.socketPath)

	go e.acceptConnections()

	return nil
}

// Stop stops the core engine
func (e *CoreEngine) Stop() error {
	e.mutex.Lock()
	e.running = false
	e.mutex.Unlock()

	if e.listener != nil {
		e.listener.Close()
	}

	if e.store != nil {
		if err := e.store.Close(); err != nil {
			log.Printf("Warning: failed to close job store: %v", err)
		}
	}

	e.subMutex.Lock()
	for ch := range e.subscribers {
		close(ch)
	}
	e.subscribers = make(map[chan protocol.Job]struct{})
	e.subMutex.Unlock()

	// Clean up socket file
	os.Remove(e.socketPath)

	return nil
}

func (e *CoreEngine) isRunning() bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.running
}

// Subscribe returns a channel receiving every completed job until
// Unsubscribe or engine shutdown.
func (e *CoreEngine) Subscribe() chan protocol.Job {
	ch := make(chan protocol.Job, 16)
	e.subMutex.Lock()
	e.subscribers[ch] = struct{}{}
	e.subMutex.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (e *CoreEngine) Unsubscribe(ch chan protocol.Job) {
	e.subMutex.Lock()
	if _, ok := e.subscribers[ch]; ok {
		delete(e.subscribers, ch)
		close(ch)
	}
	e.subMutex.Unlock()
}

// publishJob fans a completed job out to subscribers. Slow consumers
// drop events rather than stall the engine.
func (e *CoreEngine) publishJob(job protocol.Job) {
	e.subMutex.Lock()
	defer e.subMutex.Unlock()
	for ch := range e.subscribers {
		select {
		case ch <- job:
		default:
		}
	}
}

// acceptConnections accepts and handles socket connections
func (e *CoreEngine) acceptConnections() {
	for e.isRunning() {
		conn, err := e.listener.Accept()
		if err != nil {
			if e.isRunning() {
				log.Printf("Socket accept error: %v", err)
			}
			continue
		}

		go e.handleConnection(conn)
	}
}

// handleConnection handles a single socket connection
func (e *CoreEngine) handleConnection(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			response := protocol.NewErrorResponse(fmt.Sprintf("parse error: %v", err))
			conn.Write([]byte(response.String() + "\n"))
			continue
		}

		response := e.handleCommand(cmd)
		conn.Write([]byte(response.String() + "\n"))

		// Close connection after QUIT command
		if cmd.Type == protocol.CmdQuit {
			break
		}
	}
}

// handleCommand processes a single command
func (e *CoreEngine) handleCommand(cmd *protocol.Command) *protocol.Response {
	switch cmd.Type {
	case protocol.CmdStatus:
		return e.handleStatus()

	case protocol.CmdEncode:
		return e.handleEncode(cmd)

	case protocol.CmdDecode:
		return e.handleDecode(cmd)

	case protocol.CmdJobs:
		return e.handleJobs(cmd)

	case protocol.CmdPing:
		return protocol.NewSuccessResponse(map[string]interface{}{
			"pong": time.Now().Unix(),
		})

	case protocol.CmdQuit:
		return protocol.NewSuccessResponse(map[string]interface{}{
			"message": "goodbye",
		})

	default:
		return protocol.NewErrorResponse(fmt.Sprintf("unknown command: %s", cmd.Type))
	}
}

// handleStatus returns current daemon status
func (e *CoreEngine) handleStatus() *protocol.Response {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	status := protocol.Status{
		Version:      Version,
		SampleRate:   e.codec.SampleRate,
		NoteDuration: e.codec.NoteDuration,
		Uptime:       time.Since(e.startTime).String(),
		StartTime:    e.startTime,
		JobsRun:      e.jobsRun,
	}

	return protocol.NewSuccessResponse(map[string]interface{}{
		"status": status,
	})
}

// handleEncode encodes a sequence (literal or file path) into a WAV
// file and records the job.
func (e *CoreEngine) handleEncode(cmd *protocol.Command) *protocol.Response {
	input, _ := cmd.Args["input"].(string)
	if input == "" {
		return protocol.NewErrorResponse("encode requires a sequence or sequence file")
	}

	outputPath, _ := cmd.Args["output"].(string)
	if outputPath == "" {
		outputPath = filepath.Join(e.config.Paths.OutputDirectory, "encoded.wav")
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return protocol.NewErrorResponse(fmt.Sprintf("failed to create output directory: %v", err))
		}
	}

	sequence := input
	if _, err := os.Stat(input); err == nil {
		sequence, err = fasta.ReadFile(input)
		if err != nil {
			return protocol.NewErrorResponse(err.Error())
		}
	}

	job := protocol.Job{
		Timestamp:  time.Now(),
		Kind:       protocol.JobEncode,
		Input:      input,
		OutputPath: outputPath,
	}

	if err := e.codec.EncodeFile(sequence, outputPath); err != nil {
		job.Status = fmt.Sprintf("Error: %v", err)
		e.recordJob(&job)
		return protocol.NewErrorResponse(job.Status)
	}

	job.SequenceLength = len(codec.Sanitize(sequence))
	job.Status = "Encoded"
	e.recordJob(&job)

	return protocol.NewSuccessResponse(map[string]interface{}{
		"job": job,
	})
}

// handleDecode decodes a WAV recording and records the job.
func (e *CoreEngine) handleDecode(cmd *protocol.Command) *protocol.Response {
	audioPath, _ := cmd.Args["path"].(string)
	if audioPath == "" {
		return protocol.NewErrorResponse("decode requires an audio file path")
	}

	job := protocol.Job{
		Timestamp: time.Now(),
		Kind:      protocol.JobDecode,
		Input:     audioPath,
	}

	result, err := e.codec.DecodeFile(audioPath)
	if err != nil {
		job.Status = fmt.Sprintf("Error: %v", err)
		e.recordJob(&job)
		return protocol.NewErrorResponse(job.Status)
	}

	job.SequenceLength = len(result.Sequence)
	job.ErrorsCorrected = result.ErrorsCorrected
	job.Status = result.Status()
	e.recordJob(&job)

	return protocol.NewSuccessResponse(map[string]interface{}{
		"sequence": result.Sequence,
		"status":   result.Status(),
		"job":      job,
	})
}

// handleJobs returns job history
func (e *CoreEngine) handleJobs(cmd *protocol.Command) *protocol.Response {
	query := storage.JobQuery{Limit: 50}

	if limitStr, ok := cmd.Args["limit"].(string); ok {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			query.Limit = limit
		}
	}
	if kind, ok := cmd.Args["kind"].(string); ok {
		query.Kind = kind
	}

	jobs, err := e.store.GetJobs(query)
	if err != nil {
		return protocol.NewErrorResponse(fmt.Sprintf("failed to query jobs: %v", err))
	}

	return protocol.NewSuccessResponse(map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// recordJob persists a job, bumps the counter, and notifies
// subscribers. Storage failures are logged, not fatal.
func (e *CoreEngine) recordJob(job *protocol.Job) {
	id, err := e.store.StoreJob(*job)
	if err != nil {
		log.Printf("Warning: failed to store job: %v", err)
	} else {
		job.ID = int(id)
	}

	e.mutex.Lock()
	e.jobsRun++
	e.mutex.Unlock()

	e.publishJob(*job)
}
