// Package mcpserver exposes headson's budgeted summarizer as an MCP tool
// over stdio, so agent harnesses can call it directly instead of shelling
// out to the CLI. The teacher's go.mod already named
// github.com/modelcontextprotocol/go-sdk as a dependency but never wired
// any code to it; no repo in the retrieval pack exercises the SDK either,
// so this package follows the SDK's own documented server/tool API
// (mcp.NewServer + mcp.AddTool's typed-params handler) directly rather than
// a pack example.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/headson/headson/internal/discovery"
	"github.com/headson/headson/internal/grep"
	"github.com/headson/headson/internal/headson"
	"github.com/headson/headson/internal/headsonerr"
	"github.com/headson/headson/internal/ingest"
	"github.com/headson/headson/internal/render"
	"github.com/headson/headson/internal/selector"
)

// serverName identifies headson to MCP clients during initialization; the
// version string is passed to NewServer.
const serverName = "headson"

// SummarizeParams is the typed argument shape for the `summarize` tool,
// mirroring spec.md §6's public surface (budgets, grep, format) reduced to
// the fields an MCP client would realistically set.
type SummarizeParams struct {
	// Path is a file or directory to summarize. A directory is ingested as
	// a fileset using the same discovery rules as the CLI's `run` command.
	Path string `json:"path" jsonschema:"file or directory to summarize"`

	// MaxBytes, MaxChars, MaxLines are the budget caps (spec.md §6). A zero
	// value leaves that dimension unconstrained.
	MaxBytes int `json:"max_bytes,omitempty" jsonschema:"maximum output size in bytes, 0 for unconstrained"`
	MaxChars int `json:"max_chars,omitempty" jsonschema:"maximum output size in characters, 0 for unconstrained"`
	MaxLines int `json:"max_lines,omitempty" jsonschema:"maximum output size in lines, 0 for unconstrained"`

	// Grep is an optional regex; matching nodes and their ancestors are
	// guaranteed to survive selection (spec.md §4.D).
	Grep string `json:"grep,omitempty" jsonschema:"regex whose matches are guaranteed to survive budget selection"`

	// Format selects the render template: "json", "yaml", "text", or
	// "pseudo" (the default, JSON-like with omission markers).
	Format string `json:"format,omitempty" jsonschema:"json, yaml, text, or pseudo (default)"`
}

// NewServer builds the headson MCP server with the summarize tool
// registered, ready to Run against a transport.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize",
		Description: "Summarize a JSON, YAML, text, or directory input under byte/char/line budgets, keeping grep matches and their ancestors.",
	}, summarizeHandler)
	return server
}

// Run starts the MCP server over stdio and blocks until the client
// disconnects or ctx is cancelled.
func Run(ctx context.Context, version string) error {
	server := NewServer(version)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func summarizeHandler(ctx context.Context, req *mcp.CallToolRequest, params SummarizeParams) (*mcp.CallToolResult, any, error) {
	opts, err := buildOptions(params)
	if err != nil {
		return errResult(err), nil, nil
	}

	res, err := headson.Summarize(ctx, opts)
	if err != nil {
		return errResult(err), nil, nil
	}

	text := res.Output
	if res.Notice != "" {
		text = fmt.Sprintf("%s\n\n[%s]", text, res.Notice)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}

// buildOptions turns the MCP request's typed params into headson.Options,
// discovering a directory's fileset inputs via internal/discovery when Path
// names one.
func buildOptions(params SummarizeParams) (headson.Options, error) {
	if params.Path == "" {
		return headson.Options{}, headsonerr.IngestFailed("<empty>", fmt.Errorf("path is required"))
	}

	info, err := os.Stat(params.Path)
	if err != nil {
		return headson.Options{}, headsonerr.IngestFailed(params.Path, err)
	}

	var inputs []ingest.Input
	fileset := false
	if info.IsDir() {
		w := discovery.NewWalker()
		result, err := w.Walk(context.Background(), discovery.WalkerConfig{
			Root:           params.Path,
			DefaultIgnorer: discovery.NewDefaultIgnoreMatcher(),
		})
		if err != nil {
			return headson.Options{}, headsonerr.IngestFailed(params.Path, err)
		}
		inputs = result.Inputs
		fileset = true
	} else {
		data, err := os.ReadFile(params.Path)
		if err != nil {
			return headson.Options{}, headsonerr.IngestFailed(params.Path, err)
		}
		inputs = []ingest.Input{{Name: filepath.Base(params.Path), Bytes: data, Kind: kindForPath(params.Path)}}
	}

	renderCfg := render.Config{Template: templateFor(params.Format)}
	budgets := selector.Budgets{}
	if params.MaxBytes > 0 {
		v := params.MaxBytes
		budgets.ByteCap = &v
	}
	if params.MaxChars > 0 {
		v := params.MaxChars
		budgets.CharCap = &v
	}
	if params.MaxLines > 0 {
		v := params.MaxLines
		budgets.LineCap = &v
	}

	var grepCfg grep.Config
	if params.Grep != "" {
		re, err := regexp.Compile(params.Grep)
		if err != nil {
			return headson.Options{}, headsonerr.IngestFailed("<grep>", err)
		}
		grepCfg = grep.Config{Regex: re}
	}

	return headson.Options{
		Inputs:  inputs,
		Fileset: fileset,
		Grep:    grepCfg,
		Budgets: budgets,
		Render:  renderCfg,
	}, nil
}

func templateFor(format string) render.Template {
	switch strings.ToLower(format) {
	case "json":
		return render.Json
	case "yaml":
		return render.Yaml
	case "text":
		return render.Text
	default:
		return render.Pseudo
	}
}

func kindForPath(path string) ingest.Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ingest.KindJSON
	case ".yaml", ".yml":
		return ingest.KindYAML
	default:
		return ingest.KindText
	}
}
