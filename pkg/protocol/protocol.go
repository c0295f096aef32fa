package protocol

import (
	"encoding/json"
	"strings"
	"time"
)

// Command represents a command sent to the core engine
type Command struct {
	Type string                 `json:"type"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// Response represents a response from the core engine
type Response struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Job records one encode or decode run.
type Job struct {
	ID              int       `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Kind            string    `json:"kind"` // "encode" or "decode"
	Input           string    `json:"input"`
	OutputPath      string    `json:"output_path,omitempty"`
	SequenceLength  int       `json:"sequence_length"`
	ErrorsCorrected int       `json:"errors_corrected"`
	Status          string    `json:"status"`
}

// Job kinds
const (
	JobEncode = "encode"
	JobDecode = "decode"
)

// Status represents the current daemon status
type Status struct {
	Version      string    `json:"version"`
	SampleRate   int       `json:"sample_rate"`
	NoteDuration float64   `json:"note_duration"`
	Uptime       string    `json:"uptime"`
	StartTime    time.Time `json:"start_time"`
	JobsRun      int       `json:"jobs_run"`
}

// ParseCommand parses a text command into a Command struct
func ParseCommand(text string) (*Command, error) {
	text = strings.TrimSpace(text)
	parts := strings.SplitN(text, ":", 2)

	cmd := &Command{
		Type: strings.ToUpper(parts[0]),
		Args: make(map[string]interface{}),
	}

	if len(parts) > 1 {
		args := parts[1]

		switch cmd.Type {
		case CmdEncode:
			// ENCODE:<output.wav> <sequence or sequence file>
			encodeParts := strings.SplitN(args, " ", 2)
			if len(encodeParts) >= 2 {
				cmd.Args["output"] = encodeParts[0]
				cmd.Args["input"] = encodeParts[1]
			} else {
				cmd.Args["input"] = args
			}

		case CmdDecode:
			// DECODE:<audio.wav>
			cmd.Args["path"] = strings.TrimSpace(args)

		case CmdJobs:
			// JOBS:10 or JOBS:encode or JOBS:decode:10
			for _, arg := range strings.Split(args, ":") {
				if arg == JobEncode || arg == JobDecode {
					cmd.Args["kind"] = arg
				} else if arg != "" {
					cmd.Args["limit"] = arg
				}
			}
		}
	}

	return cmd, nil
}

// FormatResponse converts a Response to JSON string
func (r *Response) String() string {
	data, _ := json.Marshal(r)
	return string(data)
}

// NewSuccessResponse creates a successful response
func NewSuccessResponse(data map[string]interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err string) *Response {
	return &Response{
		Success: false,
		Error:   err,
	}
}

// Protocol commands
const (
	CmdStatus = "STATUS"
	CmdEncode = "ENCODE"
	CmdDecode = "DECODE"
	CmdJobs   = "JOBS"
	CmdPing   = "PING"
	CmdQuit   = "QUIT"
)
