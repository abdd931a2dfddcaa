package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-engine/internal/httputil"
	"github.com/pdiddy/paper-engine/pkg/types"
)

func TestMain(m *testing.M) {
	// Disable the inter-section pause and retry backoff so runs
	// complete instantly.
	defaultInterSectionDelay = 0
	httputil.RetryBaseDelay = 0
	m.Run()
}

// --- mock backend ---

// mockBackend returns canned text per section and records every prompt.
// The section for a call is inferred from the call count, which is valid
// exactly because generation order is fixed.
type mockBackend struct {
	texts   map[types.SectionName]string // canned text per section
	failAt  types.SectionName            // fail when this section is requested
	err     error                        // forced error at failAt
	prompts []string                     // every prompt received, in call order
}

func (m *mockBackend) Name() string { return "mock" }

func (m *mockBackend) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	name := types.SectionOrder[len(m.prompts)-1]
	if m.failAt != "" && name == m.failAt {
		err := m.err
		if err == nil {
			err = fmt.Errorf("forced failure")
		}
		return "", err
	}
	if text, ok := m.texts[name]; ok {
		return text, nil
	}
	return fmt.Sprintf("%s body text.", name), nil
}

// cancelBackend cancels the run context from inside its first call.
type cancelBackend struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancelBackend) Name() string { return "cancel" }

func (c *cancelBackend) Generate(_ context.Context, _ string) (string, error) {
	c.calls++
	c.cancel()
	return "text before cancellation.", nil
}

func testRequest() types.PaperRequest {
	return types.PaperRequest{
		Topic:        "Quantum Dots",
		Methodology:  "Simulation",
		KeyResults:   "Improved yield",
		SaveMarkdown: true,
	}
}

func testGenConfig() types.GenerationConfig {
	return types.GenerationConfig{
		AIConfig: types.AIConfig{
			Provider: types.ProviderGemini,
			Model:    "gemini-1.5-flash",
			APIKey:   "test-key",
		},
	}
}

// --- Run ---

func TestRunGeneratesAllSectionsInOrder(t *testing.T) {
	backend := &mockBackend{}

	doc, err := Run(context.Background(), backend, testRequest(), testGenConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(doc.Sections) != len(types.SectionOrder) {
		t.Fatalf("got %d sections, want %d", len(doc.Sections), len(types.SectionOrder))
	}
	for i, want := range types.SectionOrder {
		if doc.Sections[i].Name != want {
			t.Errorf("Sections[%d].Name = %q, want %q", i, doc.Sections[i].Name, want)
		}
	}

	if doc.RunID == "" {
		t.Error("RunID is empty")
	}
	if doc.Topic != "Quantum Dots" {
		t.Errorf("Topic = %q, want %q", doc.Topic, "Quantum Dots")
	}
	if doc.Model != "gemini-1.5-flash" {
		t.Errorf("Model = %q, want %q", doc.Model, "gemini-1.5-flash")
	}
	if doc.GeneratedAt.IsZero() {
		t.Error("GeneratedAt is zero")
	}
}

func TestRunPromptContainsOnlyPriorSections(t *testing.T) {
	texts := make(map[types.SectionName]string)
	for _, name := range types.SectionOrder {
		texts[name] = fmt.Sprintf("TOKEN-%s unique body.", name)
	}
	backend := &mockBackend{texts: texts}

	if _, err := Run(context.Background(), backend, testRequest(), testGenConfig(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(backend.prompts) != len(types.SectionOrder) {
		t.Fatalf("got %d prompts, want %d", len(backend.prompts), len(types.SectionOrder))
	}

	for i, prompt := range backend.prompts {
		for j, name := range types.SectionOrder {
			token := fmt.Sprintf("TOKEN-%s", name)
			if j < i && !strings.Contains(prompt, token) {
				t.Errorf("prompt for %s missing prior section text %s", types.SectionOrder[i], token)
			}
			if j >= i && strings.Contains(prompt, token) {
				t.Errorf("prompt for %s contains text of %s, which is not prior", types.SectionOrder[i], name)
			}
		}
	}
}

func TestRunFailsAtSection(t *testing.T) {
	backend := &mockBackend{
		failAt: types.SectionResults,
		err:    fmt.Errorf("API unavailable"),
	}

	var snapshots []types.Progress
	doc, err := Run(context.Background(), backend, testRequest(), testGenConfig(), func(p types.Progress) {
		snapshots = append(snapshots, p)
	})

	if doc != nil {
		t.Fatalf("expected nil document, got %d sections", len(doc.Sections))
	}

	var secErr *SectionError
	if !errors.As(err, &secErr) {
		t.Fatalf("error = %v, want *SectionError", err)
	}
	if secErr.Section != types.SectionResults {
		t.Errorf("failed section = %q, want %q", secErr.Section, types.SectionResults)
	}
	if !strings.Contains(err.Error(), "Results") {
		t.Errorf("error %q should name the failed section", err.Error())
	}
	if !strings.Contains(err.Error(), "API unavailable") {
		t.Errorf("error %q should carry the backend error", err.Error())
	}

	// Exactly four calls: Abstract through Results, nothing after the failure.
	if len(backend.prompts) != 4 {
		t.Errorf("backend called %d times, want 4", len(backend.prompts))
	}

	last := snapshots[len(snapshots)-1]
	if last.Section != types.SectionResults || last.Status != types.StatusFailed {
		t.Errorf("last snapshot = %s/%s, want Results/failed", last.Section, last.Status)
	}
	for _, p := range snapshots {
		if p.Section == types.SectionDiscussion || p.Section == types.SectionConclusion {
			t.Errorf("section %s reported %s after aborted run", p.Section, p.Status)
		}
	}
}

func TestRunValidatesRequest(t *testing.T) {
	tests := []struct {
		name  string
		req   types.PaperRequest
		field string
	}{
		{"missing topic", types.PaperRequest{Methodology: "Simulation", KeyResults: "Improved yield"}, "topic"},
		{"missing methodology", types.PaperRequest{Topic: "Quantum Dots", KeyResults: "Improved yield"}, "methodology"},
		{"missing key results", types.PaperRequest{Topic: "Quantum Dots", Methodology: "Simulation"}, "key_results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			doc, err := Run(context.Background(), backend, tt.req, testGenConfig(), nil)
			if doc != nil {
				t.Error("expected nil document")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
			if len(backend.prompts) != 0 {
				t.Errorf("backend called %d times before validation, want 0", len(backend.prompts))
			}
		})
	}
}

func TestRunProgressSequence(t *testing.T) {
	backend := &mockBackend{}
	var snapshots []types.Progress

	if _, err := Run(context.Background(), backend, testRequest(), testGenConfig(), func(p types.Progress) {
		snapshots = append(snapshots, p)
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Two snapshots per section: generating, then complete.
	if len(snapshots) != 2*len(types.SectionOrder) {
		t.Fatalf("got %d snapshots, want %d", len(snapshots), 2*len(types.SectionOrder))
	}
	for i, name := range types.SectionOrder {
		gen, done := snapshots[2*i], snapshots[2*i+1]
		if gen.Section != name || gen.Status != types.StatusGenerating {
			t.Errorf("snapshot %d = %s/%s, want %s/generating", 2*i, gen.Section, gen.Status, name)
		}
		if done.Section != name || done.Status != types.StatusComplete {
			t.Errorf("snapshot %d = %s/%s, want %s/complete", 2*i+1, done.Section, done.Status, name)
		}
		if gen.Index != i || gen.Total != len(types.SectionOrder) {
			t.Errorf("snapshot %d index/total = %d/%d, want %d/%d", 2*i, gen.Index, gen.Total, i, len(types.SectionOrder))
		}
	}
}

func TestRunCollectsReferences(t *testing.T) {
	backend := &mockBackend{texts: map[types.SectionName]string{
		types.SectionAbstract:     "Quantum dots show promise (Smith, 2020).",
		types.SectionIntroduction: "Earlier studies (Smith, 2020; Jones, 2019) left gaps.",
		types.SectionMethodology:  "We simulate growth kinetics (Chen et al., 2021).",
		types.SectionResults:      "Yield improved by 12% (Jones, 2019).",
		types.SectionDiscussion:   "These results extend (Smith, 2020) substantially.",
		types.SectionConclusion:   "Future work should refine the model.",
	}}

	doc, err := Run(context.Background(), backend, testRequest(), testGenConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"Smith, 2020", "Jones, 2019", "Chen et al., 2021"}
	if len(doc.References) != len(want) {
		t.Fatalf("References = %v, want %v", doc.References, want)
	}
	for i, ref := range want {
		if doc.References[i] != ref {
			t.Errorf("References[%d] = %q, want %q", i, doc.References[i], ref)
		}
	}
}

func TestRunCancellationDuringPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	backend := &cancelBackend{cancel: cancel}

	cfg := testGenConfig()
	cfg.InterSectionDelay = time.Hour

	doc, err := Run(ctx, backend, testRequest(), cfg, nil)
	if doc != nil {
		t.Error("expected nil document")
	}

	var secErr *SectionError
	if !errors.As(err, &secErr) {
		t.Fatalf("error = %v, want *SectionError", err)
	}
	if secErr.Section != types.SectionIntroduction {
		t.Errorf("failed section = %q, want %q", secErr.Section, types.SectionIntroduction)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error chain should carry context.Canceled, got %v", err)
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1", backend.calls)
	}
}

// --- WriterProgress ---

func TestWriterProgress(t *testing.T) {
	var buf strings.Builder
	progress := WriterProgress(&buf)

	progress(types.Progress{Section: types.SectionAbstract, Index: 0, Total: 6, Status: types.StatusGenerating})
	progress(types.Progress{Section: types.SectionAbstract, Index: 0, Total: 6, Status: types.StatusComplete})

	out := buf.String()
	if !strings.Contains(out, "generating Abstract (1/6)") {
		t.Errorf("output missing generating line: %q", out)
	}
	if !strings.Contains(out, "complete   Abstract (1/6)") {
		t.Errorf("output missing complete line: %q", out)
	}
}

// --- errors ---

func TestSectionErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := &SectionError{Section: types.SectionAbstract, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("SectionError should unwrap to the backend error")
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "api_key", Reason: "API key is required"}
	if !strings.Contains(err.Error(), "api_key") {
		t.Errorf("error %q should name the field", err.Error())
	}
}

// --- NewBackend ---

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name     string
		cfg      types.GenerationConfig
		wantErr  bool
		wantName string
	}{
		{
			name:     "gemini",
			cfg:      types.GenerationConfig{AIConfig: types.AIConfig{Provider: types.ProviderGemini, APIKey: "k"}},
			wantName: "gemini",
		},
		{
			name:     "empty provider defaults to gemini",
			cfg:      types.GenerationConfig{AIConfig: types.AIConfig{APIKey: "k"}},
			wantName: "gemini",
		},
		{
			name:     "openai",
			cfg:      types.GenerationConfig{AIConfig: types.AIConfig{Provider: types.ProviderOpenAI, APIKey: "k"}},
			wantName: "openai",
		},
		{
			name:     "anthropic",
			cfg:      types.GenerationConfig{AIConfig: types.AIConfig{Provider: types.ProviderAnthropic, APIKey: "k"}},
			wantName: "anthropic",
		},
		{
			name:    "missing api key",
			cfg:     types.GenerationConfig{AIConfig: types.AIConfig{Provider: types.ProviderGemini}},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     types.GenerationConfig{AIConfig: types.AIConfig{Provider: "cohere", APIKey: "k"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := NewBackend(tt.cfg)
			if tt.wantErr {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("error = %v, want *ConfigError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend: %v", err)
			}
			if backend.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", backend.Name(), tt.wantName)
			}
		})
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.AIConfig
		want string
	}{
		{"explicit model wins", types.AIConfig{Provider: types.ProviderOpenAI, Model: "gpt-4o"}, "gpt-4o"},
		{"gemini default", types.AIConfig{Provider: types.ProviderGemini}, "gemini-1.5-flash"},
		{"empty provider default", types.AIConfig{}, "gemini-1.5-flash"},
		{"openai default", types.AIConfig{Provider: types.ProviderOpenAI}, "gpt-4o-mini"},
		{"anthropic default", types.AIConfig{Provider: types.ProviderAnthropic}, "claude-sonnet-4-5-20250929"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveModel(tt.cfg); got != tt.want {
				t.Errorf("ResolveModel = %q, want %q", got, tt.want)
			}
		})
	}
}
