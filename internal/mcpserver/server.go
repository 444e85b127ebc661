// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Café Fausse tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cafe-fausse/server/internal/apperr"
	"github.com/cafe-fausse/server/internal/cafeservice"
	"github.com/cafe-fausse/server/internal/models"
)

// defaultReservationLimit caps list_reservations output when the caller
// does not ask for a specific amount.
const defaultReservationLimit = 50

// Server wraps the MCP server with Café Fausse tools.
type Server struct {
	mcp *server.MCPServer
	svc *cafeservice.Service
}

// New creates a new MCP server with all Café Fausse tools registered.
func New(svc *cafeservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Café Fausse",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_menu",
		mcp.WithDescription("Read the full menu as JSON: ordered sections, each with ordered items."),
	), s.getMenu)

	s.mcp.AddTool(mcp.NewTool("update_menu_item",
		mcp.WithDescription("Replace the full record of a menu item, addressed by name "+
			"(case-insensitive). Send every field; omitted fields come back empty. Read the "+
			"contract first via the get_menu_contract tool or the cafe://menu-format resource."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the item to update")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Full item description")),
		mcp.WithString("price", mcp.Required(), mcp.Description("Display price including currency symbol, e.g. $12.50")),
		mcp.WithString("image", mcp.Description("Absolute image path, e.g. /images/ribeye.jpg (empty for none)")),
	), s.updateMenuItem)

	s.mcp.AddTool(mcp.NewTool("delete_menu_item",
		mcp.WithDescription("Remove a menu item, addressed by name (case-insensitive)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the item to delete")),
	), s.deleteMenuItem)

	s.mcp.AddTool(mcp.NewTool("list_reservations",
		mcp.WithDescription("List upcoming reservations, oldest first."),
		mcp.WithString("from", mcp.Description("Only reservations at or after this RFC 3339 time (default: now)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of rows (default 50)")),
	), s.listReservations)

	s.mcp.AddTool(mcp.NewTool("get_menu_contract",
		mcp.WithDescription("Returns the canonical menu document contract. "+
			"Call this before updating menu items to ensure correct structure."),
	), s.getMenuContract)

	// Resource: menu format contract.
	s.mcp.AddResource(
		mcp.NewResource("cafe://menu-format", "Menu Format Contract",
			mcp.WithResourceDescription("Canonical JSON menu format that all menu updates must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMenuFormatResource,
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

func (s *Server) getMenu(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sections, err := s.svc.MenuSections()
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("menu data not found"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(sections, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) updateMenuItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	price, err := req.RequireString("price")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	image := req.GetString("image", "")

	item, err := s.svc.UpdateMenuItem(name, models.MenuItem{
		Name:        name,
		Description: description,
		Price:       price,
		Image:       image,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("item not found: %s", name)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteMenuItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteMenuItem(name); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("item not found: %s", name)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", name)), nil
}

func (s *Server) listReservations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := time.Now()
	if raw := req.GetString("from", ""); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid from time: %s", raw)), nil
		}
		from = parsed
	}
	limit := req.GetInt("limit", defaultReservationLimit)

	rows, err := s.svc.ListReservations(from, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("no reservations found"), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getMenuContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MenuFormatContract), nil
}

func (s *Server) readMenuFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "cafe://menu-format",
			MIMEType: "text/markdown",
			Text:     MenuFormatContract,
		},
	}, nil
}
