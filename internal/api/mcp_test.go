package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yash-755/robo/internal/composer"
	"github.com/yash-755/robo/internal/content"
	"github.com/yash-755/robo/internal/errx"
	"github.com/yash-755/robo/internal/policy"
	"github.com/yash-755/robo/internal/responder"
)

// --- helpers ---

func newTestMCPDeps(t *testing.T) MCPDeps {
	t.Helper()
	store, err := content.Default()
	if err != nil {
		t.Fatalf("loading content: %v", err)
	}
	compiler := composer.NewCompiler(store, composer.DefaultMaxContextTokens, nil)
	return MCPDeps{
		Responder: responder.New(store, policy.New(store.Profile())),
		Chat: chatFunc(func(_ context.Context, m string) (string, error) {
			return "model says: " + m, nil
		}),
		Store:   store,
		Context: func() string { return compiler.Compile().Text },
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// --- tests ---

func TestMCPServer_Builds(t *testing.T) {
	if s := NewMCPServer(newTestMCPDeps(t)); s == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}

func TestMCPTool_AskRobo(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpAskRobo(deps)

	result, err := handler(context.Background(), makeCallToolRequest("ask_robo", map[string]interface{}{
		"question": "How can I contact Yash?",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if got, want := toolText(t, result), deps.Responder.Respond("How can I contact Yash?"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMCPTool_AskRobo_MissingQuestion(t *testing.T) {
	result, err := mcpAskRobo(newTestMCPDeps(t))(context.Background(), makeCallToolRequest("ask_robo", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
}

func TestMCPTool_AskAssistant(t *testing.T) {
	result, err := mcpAskAssistant(newTestMCPDeps(t))(context.Background(), makeCallToolRequest("ask_assistant", map[string]interface{}{
		"question": "What are his skills?",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if got := toolText(t, result); got != "model says: What are his skills?" {
		t.Errorf("got %q", got)
	}
}

func TestMCPTool_AskAssistant_ErrorUsesPublicMessage(t *testing.T) {
	deps := newTestMCPDeps(t)
	deps.Chat = chatFunc(func(context.Context, string) (string, error) {
		return "", errx.New(errx.KindUpstreamFailure, errors.New("503 from upstream: overloaded"))
	})

	result, err := mcpAskAssistant(deps)(context.Background(), makeCallToolRequest("ask_assistant", map[string]interface{}{
		"question": "hi",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := toolText(t, result); got != errx.KindUpstreamFailure.Message() {
		t.Errorf("got %q", got)
	}
}

func TestMCPTool_AskAssistant_NotConfigured(t *testing.T) {
	deps := newTestMCPDeps(t)
	deps.Chat = nil

	result, _ := mcpAskAssistant(deps)(context.Background(), makeCallToolRequest("ask_assistant", map[string]interface{}{
		"question": "hi",
	}))
	if !result.IsError || toolText(t, result) != errx.KindServerConfiguration.Message() {
		t.Errorf("got %+v", result)
	}
}

func TestMCPTool_GetProject(t *testing.T) {
	deps := newTestMCPDeps(t)
	want := deps.Store.Projects()[0]

	result, err := mcpGetProject(deps)(context.Background(), makeCallToolRequest("get_project", map[string]interface{}{
		"id": want.ID,
	}))
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v %+v", err, result)
	}
	var got content.ProjectEntry
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatalf("decoding project: %v", err)
	}
	if got.ID != want.ID || got.Title != want.Title {
		t.Errorf("got %s/%s, want %s/%s", got.ID, got.Title, want.ID, want.Title)
	}

	result, _ = mcpGetProject(deps)(context.Background(), makeCallToolRequest("get_project", map[string]interface{}{
		"id": "project-404",
	}))
	if !result.IsError {
		t.Error("expected tool error for unknown id")
	}
}

func TestMCPResource_Context(t *testing.T) {
	deps := newTestMCPDeps(t)
	contents, err := mcpResourceContext(deps)(context.Background(), makeReadResourceRequest(uriContext))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	if !strings.HasPrefix(tc.Text, composer.HeaderPersonal) {
		t.Errorf("context does not start with personal section: %.40q", tc.Text)
	}
	if tc.URI != uriContext {
		t.Errorf("URI = %q", tc.URI)
	}
}

func TestMCPResource_Profile(t *testing.T) {
	deps := newTestMCPDeps(t)
	contents, err := mcpResourceProfile(deps)(context.Background(), makeReadResourceRequest(uriProfile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	var p content.Profile
	if err := json.Unmarshal([]byte(tc.Text), &p); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if p.Name != deps.Store.Profile().Name {
		t.Errorf("name = %q", p.Name)
	}
}

func TestMCPServer_ConcurrentCalls(t *testing.T) {
	deps := newTestMCPDeps(t)
	robo := mcpAskRobo(deps)
	assistant := mcpAskAssistant(deps)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := robo(context.Background(), makeCallToolRequest("ask_robo", map[string]interface{}{"question": "skills"})); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := assistant(context.Background(), makeCallToolRequest("ask_assistant", map[string]interface{}{"question": "skills"})); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent call failed: %v", err)
	}
}
