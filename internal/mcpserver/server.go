package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/logging"
)

// Server identity reported during initialization.
const (
	Name    = "keycalc-mcp"
	Version = "0.1.0"
)

// StateURI is the resource holding the engine state as JSON.
const StateURI = "calc://state"

// emptyHistory is returned by the history tool when nothing was computed.
const emptyHistory = "No calculations yet"

// ErrNoLabels is returned when press receives nothing to press.
var ErrNoLabels = errors.New("no labels to press")

// Server binds an engine to an MCP server.
type Server struct {
	engine  *calc.Engine
	logger  *logging.Logger
	mcp     *server.MCPServer
	session string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server for engine and registers its tools.
func New(engine *calc.Engine, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		logger:  logging.Null,
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("mcp").WithField("session", s.session)

	s.mcp = server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	s.addPressTool()
	s.addDisplayTool()
	s.addHistoryTool()
	s.addClearHistoryTool()
	s.addResetTool()
	s.addStateResource()

	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Session returns the identifier logged with every tool call.
func (s *Server) Session() string {
	return s.session
}

// Serve speaks the protocol over in and out until ctx is done or in
// reaches EOF.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("serving %s %s", Name, Version)
	stdio := server.NewStdioServer(s.mcp)
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) addPressTool() {
	tool := mcp.NewTool("press",
		mcp.WithDescription("Press calculator buttons. Accepts one label or a space separated sequence such as \"5 + 3 =\". "+
			"Labels: 0-9 . + - × ÷ % = C DEL CH (also * x / for operators). Returns the display."),
		mcp.WithString("labels",
			mcp.Required(),
			mcp.Description("Button label or space separated labels"),
		),
	)
	s.mcp.AddTool(tool, s.handlePress)
}

func (s *Server) addDisplayTool() {
	tool := mcp.NewTool("display",
		mcp.WithDescription("Return the calculator display"),
	)
	s.mcp.AddTool(tool, s.handleDisplay)
}

func (s *Server) addHistoryTool() {
	tool := mcp.NewTool("history",
		mcp.WithDescription("Return completed calculations, newest first, one per line"),
	)
	s.mcp.AddTool(tool, s.handleHistory)
}

func (s *Server) addClearHistoryTool() {
	tool := mcp.NewTool("clear_history",
		mcp.WithDescription("Remove all history entries"),
	)
	s.mcp.AddTool(tool, s.handleClearHistory)
}

func (s *Server) addResetTool() {
	tool := mcp.NewTool("reset",
		mcp.WithDescription("Clear the current entry and the history"),
	)
	s.mcp.AddTool(tool, s.handleReset)
}

func (s *Server) addStateResource() {
	resource := mcp.NewResource(StateURI,
		"Calculator State",
		mcp.WithResourceDescription("Display, pending operator and history of the calculator"),
		mcp.WithMIMEType("application/json"),
	)
	s.mcp.AddResource(resource, s.handleState)
}

func (s *Server) handlePress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	raw, ok := args["labels"].(string)
	if !ok {
		return mcp.NewToolResultError("labels is required"), nil
	}

	events, err := parseLabels(raw)
	if err != nil {
		s.logger.Debug("press %q rejected: %v", raw, err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	for _, ev := range events {
		if err := s.engine.Dispatch(ev); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	display := s.engine.CurrentDisplay()
	s.logger.Debug("press %q -> %s", raw, display)
	return mcp.NewToolResultText(display), nil
}

func (s *Server) handleDisplay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.engine.CurrentDisplay()), nil
}

func (s *Server) handleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.engine.HistoryEntries()
	if len(entries) == 0 {
		return mcp.NewToolResultText(emptyHistory), nil
	}
	return mcp.NewToolResultText(strings.Join(entries, "\n")), nil
}

func (s *Server) handleClearHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.engine.ClearHistory()
	s.logger.Debug("history cleared")
	return mcp.NewToolResultText("History cleared"), nil
}

func (s *Server) handleReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.engine.Clear()
	s.engine.ClearHistory()
	s.logger.Debug("engine reset")
	return mcp.NewToolResultText(s.engine.CurrentDisplay()), nil
}

// stateView is the JSON form of the engine state.
type stateView struct {
	Display  string   `json:"display"`
	Raw      string   `json:"raw"`
	Pending  string   `json:"pending,omitempty"`
	Operand  string   `json:"operand,omitempty"`
	Awaiting bool     `json:"awaiting_new_entry"`
	History  []string `json:"history"`
}

func (s *Server) handleState(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      StateURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) snapshot() stateView {
	st := s.engine.State()
	view := stateView{
		Display:  calc.FormatForDisplay(st.DisplayText),
		Raw:      st.DisplayText,
		Awaiting: st.AwaitingNewEntry,
		History:  st.HistoryLog,
	}
	if view.History == nil {
		view.History = []string{}
	}
	if st.Pending() {
		view.Pending = st.PendingOperator.Glyph()
	}
	if st.HasStoredOperand {
		view.Operand = calc.FormatNumber(st.StoredOperand)
	}
	return view
}

// parseLabels splits raw on whitespace and parses every label before
// anything is pressed.
func parseLabels(raw string) ([]calc.Event, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, ErrNoLabels
	}
	events := make([]calc.Event, 0, len(fields))
	for _, f := range fields {
		ev, err := calc.ParseEvent(f)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
