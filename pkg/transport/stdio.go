package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/richard-senior/canodds/internal/logger"
	"github.com/richard-senior/canodds/pkg/protocol"
)

// Errors for a single bad line; the stream is still usable afterwards.
var (
	ErrParseRequest   = errors.New("unparseable JSON-RPC request")
	ErrInvalidRequest = errors.New("invalid JSON-RPC request")
)

// Transport defines the interface for communication methods
type Transport interface {
	ReadRequest() (*protocol.JsonRpcRequest, error)
	WriteResponse(*protocol.JsonRpcResponse) error
}

// StdioTransport speaks newline delimited JSON-RPC over a reader/writer pair
type StdioTransport struct {
	reader *bufio.Reader
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewStdioTransport creates a new transport that uses stdin/stdout
func NewStdioTransport() *StdioTransport {
	return NewStreamTransport(os.Stdin, os.Stdout)
}

// NewStreamTransport creates a transport over arbitrary streams
func NewStreamTransport(r io.Reader, w io.Writer) *StdioTransport {
	return &StdioTransport{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
	}
}

// ReadRequest blocks until a complete line has been read, skipping blank lines.
// io.EOF is returned unwrapped when the client disconnects.
func (t *StdioTransport) ReadRequest() (*protocol.JsonRpcRequest, error) {
	var raw []byte
	for len(raw) == 0 {
		line, err := t.reader.ReadBytes('\n')
		raw = bytes.TrimSpace(line)
		if err == io.EOF && len(raw) == 0 {
			logger.Info("Received EOF on stdin, client disconnected")
			return nil, io.EOF
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read request: %w", err)
		}
	}
	logger.Debug("Received raw request:", string(raw))

	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: %s", ErrParseRequest, raw)
	}

	req, err := protocol.ParseJsonRpcRequest(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return req, nil
}

// WriteResponse writes one response per line and flushes
func (t *StdioTransport) WriteResponse(response *protocol.JsonRpcResponse) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	responseBytes = append(responseBytes, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.writer.Write(responseBytes); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush response: %w", err)
	}
	logger.Debug("Sent response:", string(responseBytes))
	return nil
}
