package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/richard-senior/canodds/internal/logger"
	"github.com/richard-senior/canodds/pkg/protocol"
	"github.com/richard-senior/canodds/pkg/tools"
	"github.com/richard-senior/canodds/pkg/transport"
)

const (
	serverName    = "canodds"
	serverVersion = "1.0.0"
	// some clients prefix tool names with the server alias
	toolPrefix = "mcp___"
)

// Server represents an MCP server
type Server struct {
	transport    transport.Transport
	handlers     map[string]HandlerFunc
	toolHandlers map[string]HandlerFunc
	tools        []protocol.Tool
	mu           sync.RWMutex
}

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(params any) (any, error)

// NewServer creates a server reading from t with the built-in methods registered
func NewServer(t transport.Transport) *Server {
	s := &Server{
		transport:    t,
		handlers:     make(map[string]HandlerFunc),
		toolHandlers: make(map[string]HandlerFunc),
		tools:        []protocol.Tool{},
	}
	s.handlers[string(protocol.MethodInitialize)] = s.handleInitialize
	s.handlers[string(protocol.MethodPing)] = s.handlePing
	s.handlers[string(protocol.MethodToolsList)] = s.handleToolsList
	s.handlers[string(protocol.MethodToolsCall)] = s.handleToolsCall
	return s
}

// RegisterTool registers a tool with the server
func (s *Server) RegisterTool(tool protocol.Tool, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, tool)
	s.toolHandlers[tool.Name] = handler
	logger.Info("Registered tool:", tool.Name)
}

// RegisterPredictionTools registers predict_match, team_stats and tournament_groups
func (s *Server) RegisterPredictionTools(pt *tools.PredictionTools) {
	logger.Info("Registering prediction tools...")
	s.RegisterTool(tools.PredictMatchTool(), pt.HandlePredictMatch)
	s.RegisterTool(tools.TeamStatsTool(), pt.HandleTeamStats)
	s.RegisterTool(tools.TournamentGroupsTool(), pt.HandleTournamentGroups)
}

// GetTools returns the list of registered tools
func (s *Server) GetTools() []protocol.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]protocol.Tool(nil), s.tools...)
}

// Start processes requests until the client disconnects or a signal arrives
func (s *Server) Start() error {
	logger.Info("Starting MCP server")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("Received signal:", sig)
		return nil
	}
}

// ProcessRequests continuously processes incoming requests.
// It returns nil when the input stream ends.
func (s *Server) ProcessRequests() error {
	for {
		req, err := s.transport.ReadRequest()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			code, ok := rejectionCode(err)
			if !ok {
				return err
			}
			logger.Warn("Rejected request:", err)
			if werr := s.transport.WriteResponse(protocol.NewJsonRpcErrorResponse(code, err.Error(), nil)); werr != nil {
				return werr
			}
			continue
		}

		// nil means no response is required
		resp := s.HandleRequest(req)
		if resp == nil {
			continue
		}

		if err := s.transport.WriteResponse(resp); err != nil {
			return err
		}
	}
}

// rejectionCode maps a bad input line onto its JSON-RPC error code.
// Any other read error ends the session.
func rejectionCode(err error) (int, bool) {
	switch {
	case errors.Is(err, transport.ErrParseRequest):
		return protocol.ErrParse, true
	case errors.Is(err, transport.ErrInvalidRequest):
		return protocol.ErrInvalidRequest, true
	default:
		return 0, false
	}
}

// HandleRequest processes a request and returns a response, nil for notifications
func (s *Server) HandleRequest(req *protocol.JsonRpcRequest) *protocol.JsonRpcResponse {
	logger.Info(">> ", req.Method)
	logger.Debug("Full request:", req.String())

	if req.Method == string(protocol.MethodInitialized) {
		logger.Info("Client initialized")
		return nil
	}
	if req.IsNotification() || strings.HasPrefix(req.Method, "notifications/") {
		logger.Info("Received notification:", req.Method)
		return nil
	}

	handler := s.handlers[req.Method]
	if handler == nil {
		return protocol.NewJsonRpcErrorResponse(protocol.ErrMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), req.ID)
	}

	result, err := handler(req.Params)
	if err != nil {
		code := protocol.ErrToolExecutionFailed
		var rpcErr *protocol.JsonRpcError
		if errors.As(err, &rpcErr) {
			code = rpcErr.Code
		}
		return protocol.NewJsonRpcErrorResponse(code, err.Error(), req.ID)
	}

	resp, err := protocol.NewJsonRpcResponse(result, req.ID)
	if err != nil {
		return protocol.NewJsonRpcErrorResponse(protocol.ErrInternal, "Failed to marshal result: "+err.Error(), req.ID)
	}
	logger.Debug("Full response:", resp.String())
	return resp
}

func (s *Server) handlePing(params any) (any, error) {
	return struct{}{}, nil
}

// handleToolsList handles the tools/list method
func (s *Server) handleToolsList(params any) (any, error) {
	logger.Info("Handling tools/list request")
	return struct {
		Tools []protocol.Tool `json:"tools"`
	}{
		Tools: s.GetTools(),
	}, nil
}

// handleInitialize answers with our capabilities, echoing the client's protocol version
func (s *Server) handleInitialize(params any) (any, error) {
	version := protocol.DefaultProtocolVersion
	if raw, ok := params.(json.RawMessage); ok && len(raw) > 0 {
		var initParams struct {
			ProtocolVersion string `json:"protocolVersion"`
		}
		if err := json.Unmarshal(raw, &initParams); err != nil {
			logger.Warn("Failed to parse initialize params:", err)
		} else if initParams.ProtocolVersion != "" {
			version = initParams.ProtocolVersion
		}
	}
	logger.Info("Handling initialize request, protocol version", version)

	type serverInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	return struct {
		ProtocolVersion string         `json:"protocolVersion"`
		Capabilities    map[string]any `json:"capabilities"`
		ServerInfo      serverInfo     `json:"serverInfo"`
	}{
		ProtocolVersion: version,
		Capabilities: map[string]any{
			"tools": map[string]any{"listChanged": false},
		},
		ServerInfo: serverInfo{Name: serverName, Version: serverVersion},
	}, nil
}

// handleToolsCall runs a tool. Tool failures are reported inside the result with
// IsError set; only an unparseable call or unknown tool is a JSON-RPC error.
func (s *Server) handleToolsCall(params any) (any, error) {
	var call struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	raw, _ := params.(json.RawMessage)
	if err := json.Unmarshal(raw, &call); err != nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "invalid tools/call parameters: " + err.Error()}
	}
	logger.Info("Tool call requested for:", call.Name)

	s.mu.RLock()
	handler := s.toolHandlers[call.Name]
	if handler == nil {
		handler = s.toolHandlers[strings.TrimPrefix(call.Name, toolPrefix)]
	}
	s.mu.RUnlock()
	if handler == nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "tool not found: " + call.Name}
	}

	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}
	result, err := handler(call.Arguments)
	if err != nil {
		logger.Warn("Tool failed:", call.Name, err)
		return protocol.ToolCallResult{
			Content: []protocol.ToolContent{{Type: "text", Text: err.Error()}},
			IsError: true,
		}, nil
	}

	text, err := json.MarshalIndent(result, "", " ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return protocol.ToolCallResult{
		Content:           []protocol.ToolContent{{Type: "text", Text: string(text)}},
		StructuredContent: result,
	}, nil
}
