// Package mcp implements a Model Context Protocol (MCP) server that exposes
// the layout engine as tools and resources for AI assistants: paginating and
// rendering layouts, applying editor operations and checking documents.
//
// The server communicates via JSON-RPC 2.0 over stdio and implements the
// MCP specification (2024-11-05) for tools and resources. Tools are
// stateless: each call receives a layout document and returns the result.
//
// # Usage with Claude Desktop
//
// Add to your claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "pagelayout": {
//	      "command": "layout-mcp"
//	    }
//	  }
//	}
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// Server is an MCP server that handles JSON-RPC 2.0 messages over stdio.
type Server struct {
	name      string
	version   string
	tools     map[string]Tool
	resources map[string]Resource
	input     io.Reader
	output    io.Writer
	mu        sync.Mutex
}

// Server identity reported by initialize.
const (
	DefaultName    = "layout-mcp"
	DefaultVersion = "1.0.0"
)

// Tool defines an MCP tool that can be called by the client.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Handler     ToolHandler            `json:"-"`
}

// ToolHandler is a function that executes a tool with the given arguments.
type ToolHandler func(args map[string]interface{}) (ToolResult, error)

// ToolResult is the result returned by a tool execution.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is a piece of content in a tool result.
type ContentBlock struct {
	Type     string `json:"type"`               // "text" or "resource"
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"` // base64 for binary
}

// Resource defines an MCP resource.
type Resource struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MIMEType    string          `json:"mimeType,omitempty"`
	Handler     ResourceHandler `json:"-"`
}

// ResourceHandler reads a resource and returns its content.
type ResourceHandler func(uri string) ([]ResourceContent, error)

// ResourceContent is the content of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"` // base64
}

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type jsonrpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id"`
	Result  interface{}      `json:"result,omitempty"`
	Error   *jsonrpcError    `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewServer creates a new MCP server reading from stdin and writing to stdout.
func NewServer() *Server {
	return NewServerWithIO(os.Stdin, os.Stdout)
}

// NewServerWithIO creates a new MCP server with custom I/O for testing.
func NewServerWithIO(in io.Reader, out io.Writer) *Server {
	return &Server{
		name:      DefaultName,
		version:   DefaultVersion,
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		input:     in,
		output:    out,
	}
}

// SetInfo overrides the name and version reported to clients.
func (s *Server) SetInfo(name, version string) {
	s.name = name
	s.version = version
}

// AddTool registers a tool with the server. A tool with the same name is replaced.
func (s *Server) AddTool(t Tool) {
	s.tools[t.Name] = t
}

// AddResource registers a resource with the server.
func (s *Server) AddResource(r Resource) {
	s.resources[r.URI] = r
}

// Run reads newline-delimited JSON-RPC messages until EOF.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.input)
	// Layout documents with many items can make long lines.
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req jsonrpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.sendError(nil, codeParseError, "Parse error", err.Error())
			continue
		}

		s.handleRequest(req)
	}

	return scanner.Err()
}

// notifications are acknowledged silently.
var notifications = map[string]bool{
	"initialized":               true,
	"notifications/initialized": true,
	"notifications/cancelled":   true,
}

func (s *Server) handleRequest(req jsonrpcRequest) {
	if notifications[req.Method] {
		return
	}
	if req.JSONRPC != "2.0" {
		if req.ID != nil {
			s.sendError(req.ID, codeInvalidRequest, "Invalid request", "jsonrpc must be \"2.0\"")
		}
		return
	}

	var handle func(jsonrpcRequest)
	switch req.Method {
	case "initialize":
		handle = s.handleInitialize
	case "ping":
		handle = func(r jsonrpcRequest) { s.sendResult(r.ID, map[string]interface{}{}) }
	case "tools/list":
		handle = s.handleToolsList
	case "tools/call":
		handle = s.handleToolsCall
	case "resources/list":
		handle = s.handleResourcesList
	case "resources/read":
		handle = s.handleResourcesRead
	}
	if handle == nil {
		if req.ID != nil {
			s.sendError(req.ID, codeMethodNotFound, "Method not found", req.Method)
		}
		return
	}
	handle(req)
}

// supportedVersions lists the protocol revisions the server can speak. A
// client asking for another revision gets the last entry.
var supportedVersions = []string{"2025-03-26", "2024-11-05"}

func negotiateVersion(requested string) string {
	for _, v := range supportedVersions {
		if v == requested {
			return v
		}
	}
	return supportedVersions[len(supportedVersions)-1]
}

func (s *Server) handleInitialize(req jsonrpcRequest) {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	_ = json.Unmarshal(req.Params, &params)

	s.sendResult(req.ID, map[string]interface{}{
		"protocolVersion": negotiateVersion(params.ProtocolVersion),
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    s.name,
			"version": s.version,
		},
	})
}

func (s *Server) handleToolsList(req jsonrpcRequest) {
	tools := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	s.sendResult(req.ID, map[string]interface{}{"tools": tools})
}

func (s *Server) handleToolsCall(req jsonrpcRequest) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, codeInvalidParams, "Invalid params", err.Error())
		return
	}

	tool, ok := s.tools[params.Name]
	if !ok {
		s.sendError(req.ID, codeInvalidParams, "Unknown tool", params.Name)
		return
	}

	// Tool failures are results, not protocol errors, so the client can show them.
	result, err := callTool(tool, params.Arguments)
	if err != nil {
		s.sendResult(req.ID, ToolResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		})
		return
	}
	s.sendResult(req.ID, result)
}

// callTool runs a tool handler, turning a panic into an error.
func callTool(tool Tool, args map[string]interface{}) (result ToolResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("tool %s panicked: %v", tool.Name, p)
		}
	}()
	if args == nil {
		args = map[string]interface{}{}
	}
	return tool.Handler(args)
}

func (s *Server) handleResourcesList(req jsonrpcRequest) {
	resources := make([]Resource, 0, len(s.resources))
	for _, r := range s.resources {
		resources = append(resources, r)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].URI < resources[j].URI })
	s.sendResult(req.ID, map[string]interface{}{"resources": resources})
}

func (s *Server) handleResourcesRead(req jsonrpcRequest) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, codeInvalidParams, "Invalid params", err.Error())
		return
	}

	resource, ok := s.resources[params.URI]
	if !ok {
		s.sendError(req.ID, codeInvalidParams, "Unknown resource", params.URI)
		return
	}

	contents, err := resource.Handler(params.URI)
	if err != nil {
		s.sendError(req.ID, codeInternalError, "Resource error", err.Error())
		return
	}
	s.sendResult(req.ID, map[string]interface{}{"contents": contents})
}

func (s *Server) sendResult(id *json.RawMessage, result interface{}) {
	s.send(jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id *json.RawMessage, code int, message string, data interface{}) {
	s.send(jsonrpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &jsonrpcError{Code: code, Message: message, Data: data},
	})
}

func (s *Server) send(resp jsonrpcResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(jsonrpcResponse{
			JSONRPC: "2.0",
			ID:      resp.ID,
			Error:   &jsonrpcError{Code: codeInternalError, Message: "Encoding error", Data: err.Error()},
		})
	}
	data = append(data, '\n')
	s.output.Write(data)
}
