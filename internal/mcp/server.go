// Package mcp exposes every query operation as an MCP tool over stdio,
// plus a list_languages tool. Engine failures are reported inside the
// result object with IsError set, never as protocol-level errors, so the
// caller can see what went wrong and self-correct.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/open-agent-tools/codenav/internal/config"
	"github.com/open-agent-tools/codenav/internal/debug"
	"github.com/open-agent-tools/codenav/internal/errors"
	"github.com/open-agent-tools/codenav/internal/grammar"
	"github.com/open-agent-tools/codenav/internal/query"
	"github.com/open-agent-tools/codenav/internal/version"
)

// Server wraps the MCP server with one tool per query operation.
type Server struct {
	engine *query.Engine
	server *mcp.Server
}

// queryParams is the wire shape shared by every operation tool. Presence
// checks for the operation's required arguments live in the engine.
type queryParams struct {
	SourceCode   string `json:"source_code"`
	Language     string `json:"language"`
	FunctionName string `json:"function_name,omitempty"`
	TypeName     string `json:"type_name,omitempty"`
	MethodName   string `json:"method_name,omitempty"`
	Pattern      string `json:"pattern,omitempty"`
	Stem         bool   `json:"stem,omitempty"`
}

var toolDescriptions = map[string]string{
	"locate_function":    "Find a function or method by name and return its line range, visibility, and async flag.",
	"locate_type":        "Find a class, struct, interface, trait, or enum by name and return its line range and kind.",
	"locate_method":      "Find a method inside a named type.",
	"module_overview":    "Counts, name lists, entry-point flag, line count, and source hash for one source file.",
	"list_functions":     "Every function and method in the file with its full record.",
	"list_types":         "Every type in the file with bases, methods, and docstring.",
	"get_signature":      "One function's signature text, parameters, return type, and async flag.",
	"get_docstring":      "The documentation attached to a function.",
	"get_type_docstring": "The documentation attached to a type.",
	"list_methods":       "Method names defined by a type.",
	"public_api":         "Function and type names visible outside the module.",
	"function_details":   "Every known fact about one function in a single record.",
	"get_body":           "A function's body text and line range.",
	"list_calls":         "Calls made inside a function body.",
	"find_usages":        "Call sites of a name across the file, with the enclosing caller.",
	"type_hierarchy":     "Declared bases and implemented interfaces of a type.",
	"search_docstrings":  "Definitions whose documentation matches a pattern, with optional word stemming.",
}

// NewServer builds the tool server. It does nothing until Run.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		engine: query.FromConfig(cfg),
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "codenav",
			Version: version.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves on stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	debug.SetMCPMode(true)
	defer debug.SetMCPMode(false)
	debug.LogMCP("serving %d tools on stdio\n", len(query.Operations())+1)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	for _, spec := range query.Specs() {
		s.server.AddTool(&mcp.Tool{
			Name:        spec.Name,
			Description: toolDescriptions[spec.Name],
			InputSchema: schemaFor(spec),
		}, s.operationHandler(spec.Name))
	}
	s.server.AddTool(&mcp.Tool{
		Name:        "list_languages",
		Description: "Supported language tags with their aliases and file extensions.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleListLanguages)
}

// schemaFor declares the tool input schema an operation's argument contract
// implies. Function-taking operations accept an optional type_name scope;
// type-taking operations require it.
func schemaFor(spec query.Spec) *jsonschema.Schema {
	props := map[string]*jsonschema.Schema{
		"source_code": {Type: "string", Description: "Source text to analyze"},
		"language":    {Type: "string", Description: "Language tag or alias, e.g. go, py, ts, rust"},
	}
	required := []string{"source_code", "language"}

	if spec.NeedsFunction {
		props["function_name"] = &jsonschema.Schema{Type: "string", Description: "Function or method name"}
		props["type_name"] = &jsonschema.Schema{Type: "string", Description: "Optional type scope narrowing the lookup to one type's methods"}
		required = append(required, "function_name")
	}
	if spec.NeedsType {
		props["type_name"] = &jsonschema.Schema{Type: "string", Description: "Type name"}
		required = append(required, "type_name")
	}
	if spec.NeedsMethod {
		props["method_name"] = &jsonschema.Schema{Type: "string", Description: "Method name inside the type"}
		required = append(required, "method_name")
	}
	if spec.NeedsPattern {
		props["pattern"] = &jsonschema.Schema{Type: "string", Description: "Text to match against docstrings"}
		props["stem"] = &jsonschema.Schema{Type: "boolean", Description: "Stem words before matching so 'parsing' finds 'parse'"}
		required = append(required, "pattern")
	}

	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}

func (s *Server) operationHandler(name string) func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var params queryParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return errorResult(name, fmt.Errorf("invalid parameters: %w", err)), nil
		}
		rec, err := s.engine.Do(query.Request{
			Operation: name,
			Source:    params.SourceCode,
			Language:  params.Language,
			Function:  params.FunctionName,
			Type:      params.TypeName,
			Method:    params.MethodName,
			Pattern:   params.Pattern,
			Stem:      params.Stem,
		})
		if err != nil {
			return errorResult(name, err), nil
		}
		return jsonResult(rec)
	}
}

func (s *Server) handleListLanguages(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(grammar.Catalog())
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

func errorResult(operation string, err error) *mcp.CallToolResult {
	payload, _ := json.Marshal(map[string]string{
		"operation": operation,
		"error":     err.Error(),
		"kind":      string(errors.Kind(err)),
	})
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}
}
