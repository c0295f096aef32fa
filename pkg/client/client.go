package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/dnawave/dnawave/pkg/protocol"
)

// SocketClient represents a client connection to the core engine
type SocketClient struct {
	socketPath string
	timeout    time.Duration
}

// NewSocketClient creates a new socket client
func NewSocketClient(socketPath string) *SocketClient {
	return &SocketClient{
		socketPath: socketPath,
		timeout:    30 * time.Second,
	}
}

// SendCommand sends a command and returns the response
func (c *SocketClient) SendCommand(cmd string) (*protocol.Response, error) {
	// Connect to Unix socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	// Set read/write timeout
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Send command
	_, err = conn.Write([]byte(cmd + "\n"))
	if err != nil {
		return nil, fmt.Errorf("send error: %w", err)
	}

	// Read response
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !scanner.Scan() {
		return nil, fmt.Errorf("no response received")
	}

	responseText := scanner.Text()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	// Parse JSON response
	var response protocol.Response
	if err := json.Unmarshal([]byte(responseText), &response); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return &response, nil
}

// GetStatus gets the current daemon status
func (c *SocketClient) GetStatus() (*protocol.Status, error) {
	resp, err := c.SendCommand(protocol.CmdStatus)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, fmt.Errorf("status error: %s", resp.Error)
	}

	statusData, ok := resp.Data["status"]
	if !ok {
		return nil, fmt.Errorf("status not found in response")
	}

	// Convert to JSON and back to parse properly
	statusJSON, _ := json.Marshal(statusData)
	var status protocol.Status
	if err := json.Unmarshal(statusJSON, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status: %w", err)
	}

	return &status, nil
}

// GetJobs gets recent job history
func (c *SocketClient) GetJobs(limit int) ([]protocol.Job, error) {
	cmd := protocol.CmdJobs
	if limit > 0 {
		cmd = fmt.Sprintf("%s:%d", protocol.CmdJobs, limit)
	}

	resp, err := c.SendCommand(cmd)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, fmt.Errorf("jobs error: %s", resp.Error)
	}

	jobsData, ok := resp.Data["jobs"]
	if !ok {
		return []protocol.Job{}, nil
	}

	// Convert to JSON and back to parse properly
	jobsJSON, _ := json.Marshal(jobsData)
	var jobs []protocol.Job
	if err := json.Unmarshal(jobsJSON, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse jobs: %w", err)
	}

	return jobs, nil
}

// Encode asks the engine to encode a sequence (or sequence file path)
// into the given output WAV file and returns the recorded job.
func (c *SocketClient) Encode(input, outputPath string) (*protocol.Job, error) {
	cmd := fmt.Sprintf("%s:%s %s", protocol.CmdEncode, outputPath, input)

	resp, err := c.SendCommand(cmd)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, fmt.Errorf("encode error: %s", resp.Error)
	}

	return jobFromResponse(resp)
}

// Decode asks the engine to decode a WAV recording and returns the
// recovered sequence along with the recorded job.
func (c *SocketClient) Decode(audioPath string) (string, *protocol.Job, error) {
	cmd := fmt.Sprintf("%s:%s", protocol.CmdDecode, audioPath)

	resp, err := c.SendCommand(cmd)
	if err != nil {
		return "", nil, err
	}

	if !resp.Success {
		return "", nil, fmt.Errorf("decode error: %s", resp.Error)
	}

	sequence, _ := resp.Data["sequence"].(string)
	job, err := jobFromResponse(resp)
	if err != nil {
		return "", nil, err
	}
	return sequence, job, nil
}

func jobFromResponse(resp *protocol.Response) (*protocol.Job, error) {
	jobData, ok := resp.Data["job"]
	if !ok {
		return nil, fmt.Errorf("job not found in response")
	}

	jobJSON, _ := json.Marshal(jobData)
	var job protocol.Job
	if err := json.Unmarshal(jobJSON, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}

	return &job, nil
}

// Ping tests the connection
func (c *SocketClient) Ping() error {
	resp, err := c.SendCommand(protocol.CmdPing)
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("ping error: %s", resp.Error)
	}

	return nil
}

// IsConnected tests if the daemon is reachable
func (c *SocketClient) IsConnected() bool {
	return c.Ping() == nil
}
