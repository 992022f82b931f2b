package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/kamado/internal/catalog"
	"github.com/starford/kamado/internal/models"
	"github.com/starford/kamado/internal/testutil"
)

func testServer(t *testing.T) (*Server, *catalog.Store) {
	t.Helper()
	store, _ := testutil.TestStore(t)
	return New(store), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_records":
		result, err = srv.searchRecords(ctx, req)
	case "read_record":
		result, err = srv.readRecord(ctx, req)
	case "create_record":
		result, err = srv.createRecord(ctx, req)
	case "add_cooking_log":
		result, err = srv.addCookingLog(ctx, req)
	case "list_folders":
		result, err = srv.listFolders(ctx, req)
	case "get_record_contract":
		result, err = srv.getRecordContract(ctx, req)
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

func seedRecord(t *testing.T, store *catalog.Store, title, category string) *models.Record {
	t.Helper()
	rec, err := store.CreateRecord(context.Background(), catalog.RecordInput{
		Title:      title,
		Category:   category,
		Components: []models.Item{{Name: "豚肉", Quantity: "200g"}},
		Steps:      []models.Step{{Text: "煮る"}},
	})
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return rec
}

func TestCreateAndReadRecord(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_record", map[string]interface{}{
		"record": `{"title":"肉じゃが","category":"和食","components":[{"name":"豚肉","quantity":"200g"}],"steps":["切る","煮る"]}`,
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	r = callTool(t, srv, "read_record", map[string]interface{}{"id": id})
	var rec models.Record
	if err := json.Unmarshal([]byte(resultText(r)), &rec); err != nil {
		t.Fatalf("decode read result: %v", err)
	}
	if rec.Title != "肉じゃが" || len(rec.Steps) != 2 {
		t.Errorf("read result = %+v", rec)
	}
}

func TestCreateRecord_RejectsInvalid(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_record", map[string]interface{}{
		"record": `{"title":"","steps":["x"]}`,
	})
	if !r.IsError {
		t.Error("expected error for empty title")
	}

	r = callTool(t, srv, "create_record", map[string]interface{}{
		"record": `not json`,
	})
	if !r.IsError {
		t.Error("expected error for malformed JSON")
	}
}

func TestSearchRecords(t *testing.T) {
	srv, store := testServer(t)
	seedRecord(t, store, "肉じゃが", "和食")
	seedRecord(t, store, "Carbonara", "洋食")

	r := callTool(t, srv, "search_records", map[string]interface{}{"query": "carbo"})
	text := resultText(r)
	if !strings.Contains(text, "Carbonara") || strings.Contains(text, "肉じゃが") {
		t.Errorf("search result = %s", text)
	}

	r = callTool(t, srv, "search_records", map[string]interface{}{"folder": "和食"})
	text = resultText(r)
	if !strings.Contains(text, "肉じゃが") || strings.Contains(text, "Carbonara") {
		t.Errorf("folder search result = %s", text)
	}
}

func TestReadRecordMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_record", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing record")
	}
}

func TestAddCookingLog(t *testing.T) {
	srv, store := testServer(t)
	rec := seedRecord(t, store, "肉じゃが", "和食")

	r := callTool(t, srv, "add_cooking_log", map[string]interface{}{
		"id":   rec.ID,
		"text": "次は砂糖を減らす",
	})
	if r.IsError {
		t.Fatalf("add_cooking_log error: %s", resultText(r))
	}

	got, err := store.GetRecord(rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Logs) != 1 || got.Logs[0].Text != "次は砂糖を減らす" {
		t.Errorf("logs = %+v", got.Logs)
	}
}

func TestListFolders(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_folders", map[string]interface{}{})
	text := resultText(r)
	for _, f := range models.DefaultFolders {
		if !strings.Contains(text, f) {
			t.Errorf("folders output missing %q: %s", f, text)
		}
	}
}

func TestGetRecordContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_record_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "components") {
		t.Error("contract should mention components")
	}
}
