// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Kamado tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/starford/kamado/internal/apperr"
	"github.com/starford/kamado/internal/catalog"
	"github.com/starford/kamado/internal/models"
	"github.com/starford/kamado/internal/query"
)

// Server wraps the MCP server with Kamado tools.
type Server struct {
	mcp   *server.MCPServer
	store *catalog.Store
}

// New creates a new MCP server with all Kamado tools registered.
func New(store *catalog.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"Kamado",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Search recipe records by title and ingredient names, "+
			"optionally limited to one category folder."),
		mcp.WithString("query", mcp.Description("Case-insensitive search text (empty matches everything)")),
		mcp.WithString("folder", mcp.Description("Category folder to search in ('all' or empty for every folder)")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("read_record",
		mcp.WithDescription("Read the full recipe record, including steps and cooking logs."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
	), s.readRecord)

	s.mcp.AddTool(mcp.NewTool("create_record",
		mcp.WithDescription("Create a new recipe record. The record JSON MUST follow the "+
			"canonical record format. Read the contract first via the get_record_contract "+
			"tool or the kamado://record-format resource."),
		mcp.WithString("record", mcp.Required(), mcp.Description("Record as JSON following the Kamado record format contract")),
	), s.createRecord)

	s.mcp.AddTool(mcp.NewTool("add_cooking_log",
		mcp.WithDescription("Append a timestamped cooking log entry to a record. "+
			"Newest entries are kept first."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Log text, e.g. what to adjust next time")),
	), s.addCookingLog)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the canonical Kamado record format contract. "+
			"Call this before creating records to ensure correct structure."),
	), s.getRecordContract)

	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List the category folders of the catalog."),
	), s.listFolders)

	// Resource: record format contract.
	s.mcp.AddResource(
		mcp.NewResource("kamado://record-format", "Record Format Contract",
			mcp.WithResourceDescription("Canonical record format that all recipe records must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := query.Filter{
		Text:   req.GetString("query", ""),
		Folder: req.GetString("folder", query.FolderAll),
	}
	results := query.Run(s.store.Records(), f, query.SortCreatedDesc)

	type hit struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Category string `json:"category"`
		Rating   int    `json:"rating"`
	}
	hits := make([]hit, 0, len(results))
	for _, rec := range results {
		hits = append(hits, hit{ID: rec.ID, Title: rec.Title, Category: rec.Category, Rating: rec.Rating})
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.store.GetRecord(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("record")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var payload struct {
		Title      string        `json:"title"`
		Category   string        `json:"category"`
		Components []models.Item `json:"components"`
		Attributes []models.Item `json:"attributes"`
		Steps      []string      `json:"steps"`
		Rating     any           `json:"rating"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid record JSON: %v", err)), nil
	}

	steps := make([]models.Step, 0, len(payload.Steps))
	for _, t := range payload.Steps {
		steps = append(steps, models.Step{Text: t})
	}
	rec, err := s.store.CreateRecord(ctx, catalog.RecordInput{
		Title:      payload.Title,
		Category:   payload.Category,
		Components: payload.Components,
		Attributes: payload.Attributes,
		Steps:      steps,
		Rating:     cast.ToInt(payload.Rating),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", rec.ID)), nil
}

func (s *Server) addCookingLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ok, err := s.store.AppendLog(ctx, id, text)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("log added to %s", id)), nil
}

func (s *Server) listFolders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(s.store.ListFolders(), "\n")), nil
}

func (s *Server) getRecordContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "kamado://record-format",
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}
