package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cafe-fausse/server/internal/cafeservice"
	"github.com/cafe-fausse/server/internal/models"
	"github.com/cafe-fausse/server/internal/testutil"
)

func testServer(t *testing.T) (*Server, *cafeservice.Service) {
	t.Helper()

	db := testutil.TestDB(t)
	_, provider := testutil.TestMenu(t, testutil.SampleMenu())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := cafeservice.NewService(db, provider, logger, cafeservice.Options{
		AdminUsername:     "admin",
		AdminPasswordHash: "x",
		SessionTTL:        time.Hour,
		TotalTables:       30,
	})

	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_menu":
		result, err = srv.getMenu(ctx, req)
	case "update_menu_item":
		result, err = srv.updateMenuItem(ctx, req)
	case "delete_menu_item":
		result, err = srv.deleteMenuItem(ctx, req)
	case "list_reservations":
		result, err = srv.listReservations(ctx, req)
	case "get_menu_contract":
		result, err = srv.getMenuContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestGetMenu(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_menu", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("get_menu errored: %s", resultText(r))
	}

	var sections []models.MenuSection
	if err := json.Unmarshal([]byte(resultText(r)), &sections); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sections) != 2 || sections[0].Title != "Starters" {
		t.Errorf("unexpected sections: %+v", sections)
	}
}

func TestUpdateMenuItem(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "update_menu_item", map[string]interface{}{
		"name":        "soup",
		"description": "Roasted tomato with basil",
		"price":       "$9",
	})
	if r.IsError {
		t.Fatalf("update errored: %s", resultText(r))
	}

	sections, err := svc.MenuSections()
	if err != nil {
		t.Fatal(err)
	}
	got := sections[0].Items[0]
	if got.Price != "$9" || got.Description != "Roasted tomato with basil" {
		t.Errorf("persisted item = %+v", got)
	}
	if got.Image != "" {
		t.Errorf("omitted image kept old value %q", got.Image)
	}
}

func TestUpdateMenuItemMissing(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "update_menu_item", map[string]interface{}{
		"name":        "Unicorn Steak",
		"description": "rare",
		"price":       "$99",
	})
	if !r.IsError {
		t.Error("expected error for unknown item")
	}
	if !strings.Contains(resultText(r), "item not found") {
		t.Errorf("error text = %q", resultText(r))
	}
}

func TestDeleteMenuItem(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "delete_menu_item", map[string]interface{}{"name": "Bruschetta"})
	if r.IsError {
		t.Fatalf("delete errored: %s", resultText(r))
	}
	if resultText(r) != "deleted: Bruschetta" {
		t.Errorf("result = %q", resultText(r))
	}

	sections, err := svc.MenuSections()
	if err != nil {
		t.Fatal(err)
	}
	if len(sections[0].Items) != 1 {
		t.Errorf("starters = %+v", sections[0].Items)
	}
}

func TestListReservations(t *testing.T) {
	srv, svc := testServer(t)

	slot := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Minute)
	if _, err := svc.CreateReservation(slot, 2, "Jane Doe", "jane@example.com", ""); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "list_reservations", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("list errored: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "jane@example.com") {
		t.Errorf("reservations output = %q", resultText(r))
	}
}

func TestListReservationsEmpty(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_reservations", map[string]interface{}{})
	if resultText(r) != "no reservations found" {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestGetMenuContract(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_menu_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Menu Format Contract") {
		t.Errorf("contract text = %q", resultText(r))
	}
}
