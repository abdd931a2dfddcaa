// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive terminal interface for paper generation.
// It follows The Elm Architecture: the App model holds all state, Update
// reacts to messages, and View renders the current state to a string. The
// generation pipeline runs in a single background goroutine that reports
// through a message channel.
//
// Implements: prd004-interface (R2); docs/ARCHITECTURE § Interface.
package tui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/paper-engine/internal/export"
	"github.com/pdiddy/paper-engine/internal/generate"
	"github.com/pdiddy/paper-engine/internal/library"
	"github.com/pdiddy/paper-engine/pkg/types"
)

// appState represents which screen we're on.
type appState int

const (
	stateForm    appState = iota // Request form, waiting for input
	stateRunning                 // Generation pipeline in flight
	stateDone                    // Pipeline finished, showing results
)

// Form focus targets, in traversal order.
const (
	focusTopic = iota
	focusMethodology
	focusKeyResults
	focusAPIKey
	focusProvider
	focusMarkdown
	focusHTML
	focusCount
)

// providerOrder cycles through the selectable backends.
var providerOrder = []types.AIProvider{
	types.ProviderGemini,
	types.ProviderOpenAI,
	types.ProviderAnthropic,
}

// progressMsg carries one pipeline progress snapshot into Update.
type progressMsg types.Progress

// runFinishedMsg reports the pipeline outcome.
type runFinishedMsg struct {
	doc     *types.PaperDocument
	paths   []string
	warning string
	err     error
}

// BackendFactory builds the generation backend for a run.
type BackendFactory func(types.GenerationConfig) (generate.Backend, error)

// KeyResolver returns the configured API key for a provider, so cycling
// the provider in the form picks up that provider's key without retyping.
type KeyResolver func(types.AIProvider) string

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithBackendFactory overrides how the App constructs generation backends.
func WithBackendFactory(factory BackendFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newBackend = factory
		}
	}
}

// WithKeyResolver supplies per-provider API key lookup for the form.
func WithKeyResolver(resolver KeyResolver) AppOption {
	return func(a *App) {
		a.resolveKey = resolver
	}
}

// App is the application model. It holds all interface state.
type App struct {
	state appState
	cfg   types.PipelineConfig

	newBackend BackendFactory
	resolveKey KeyResolver

	// Form state
	inputs        [4]textinput.Model
	focus         int
	providerIndex int
	saveMarkdown  bool
	saveHTML      bool

	// Run state
	statuses map[types.SectionName]types.SectionStatus
	events   chan tea.Msg
	cancel   context.CancelFunc
	quitting bool

	// Results
	doc     *types.PaperDocument
	paths   []string
	warning string
	errMsg  string

	width  int
	height int
}

// NewApp builds the interface over a resolved pipeline configuration. The
// configured provider and API key become the form defaults.
func NewApp(cfg types.PipelineConfig, opts ...AppOption) *App {
	app := &App{
		state:      stateForm,
		cfg:        cfg,
		newBackend: generate.NewBackend,
		statuses:   freshStatuses(),
	}

	app.inputs[focusTopic] = newInput("research topic", 256)
	app.inputs[focusMethodology] = newInput("methodology", 256)
	app.inputs[focusKeyResults] = newInput("key results", 256)

	key := newInput("API key (blank = configured key)", 256)
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'
	app.inputs[focusAPIKey] = key

	for i, p := range providerOrder {
		if p == cfg.Generation.Provider {
			app.providerIndex = i
		}
	}

	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	app.inputs[focusTopic].Focus()
	return app
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 48
	return in
}

func freshStatuses() map[types.SectionName]types.SectionStatus {
	statuses := make(map[types.SectionName]types.SectionStatus, len(types.SectionOrder))
	for _, name := range types.SectionOrder {
		statuses[name] = types.StatusPending
	}
	return statuses
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case progressMsg:
		a.statuses[msg.Section] = msg.Status
		return a, a.waitForEvent()

	case runFinishedMsg:
		a.cancel = nil
		if a.quitting {
			return a, tea.Quit
		}
		if msg.err != nil {
			a.state = stateForm
			a.errMsg = msg.err.Error()
			return a, nil
		}
		a.state = stateDone
		a.doc = msg.doc
		a.paths = msg.paths
		a.warning = msg.warning
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateFocusedInput(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		if a.cancel != nil {
			a.cancel()
		}
		return a, tea.Quit
	}

	switch a.state {
	case stateRunning:
		if key == "esc" || key == "q" {
			// Cancel the pipeline; quit when it acknowledges.
			if a.cancel != nil && !a.quitting {
				a.quitting = true
				a.cancel()
			}
		}
		return a, nil

	case stateDone:
		switch key {
		case "n":
			a.reset()
			return a, textinput.Blink
		case "q", "esc", "enter":
			return a, tea.Quit
		}
		return a, nil
	}

	// stateForm
	switch key {
	case "esc":
		return a, tea.Quit
	case "tab", "down":
		a.setFocus(a.focus + 1)
		return a, nil
	case "shift+tab", "up":
		a.setFocus(a.focus - 1)
		return a, nil
	case "left":
		if a.focus == focusProvider {
			a.providerIndex = (a.providerIndex + len(providerOrder) - 1) % len(providerOrder)
			return a, nil
		}
	case "right":
		if a.focus == focusProvider {
			a.providerIndex = (a.providerIndex + 1) % len(providerOrder)
			return a, nil
		}
	case " ":
		switch a.focus {
		case focusMarkdown:
			a.saveMarkdown = !a.saveMarkdown
			return a, nil
		case focusHTML:
			a.saveHTML = !a.saveHTML
			return a, nil
		}
	case "enter":
		return a.startRun()
	}

	return a.updateFocusedInput(msg)
}

func (a *App) setFocus(focus int) {
	a.focus = (focus + focusCount) % focusCount
	for i := range a.inputs {
		if i == a.focus {
			a.inputs[i].Focus()
		} else {
			a.inputs[i].Blur()
		}
	}
}

func (a *App) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state != stateForm || a.focus >= len(a.inputs) {
		return a, nil
	}
	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	return a, cmd
}

func (a *App) reset() {
	a.state = stateForm
	a.statuses = freshStatuses()
	a.doc = nil
	a.paths = nil
	a.warning = ""
	a.errMsg = ""
	a.quitting = false
	a.setFocus(focusTopic)
}

// buildRequest assembles the paper request from the form fields.
func (a *App) buildRequest() types.PaperRequest {
	return types.PaperRequest{
		Topic:        strings.TrimSpace(a.inputs[focusTopic].Value()),
		Methodology:  strings.TrimSpace(a.inputs[focusMethodology].Value()),
		KeyResults:   strings.TrimSpace(a.inputs[focusKeyResults].Value()),
		SaveMarkdown: a.saveMarkdown,
		SaveHTML:     a.saveHTML,
	}
}

// generationConfig resolves the form's provider and API key over the
// configured defaults. A typed key wins; otherwise the key resolver
// supplies the selected provider's key when it has one.
func (a *App) generationConfig() types.GenerationConfig {
	cfg := a.cfg.Generation
	cfg.Provider = providerOrder[a.providerIndex]
	if key := strings.TrimSpace(a.inputs[focusAPIKey].Value()); key != "" {
		cfg.APIKey = key
	} else if a.resolveKey != nil {
		if key := a.resolveKey(cfg.Provider); key != "" {
			cfg.APIKey = key
		}
	}
	return cfg
}

func (a *App) startRun() (tea.Model, tea.Cmd) {
	req := a.buildRequest()
	if err := generate.ValidateRequest(req); err != nil {
		a.errMsg = err.Error()
		return a, nil
	}

	cfg := a.cfg
	cfg.Generation = a.generationConfig()

	backend, err := a.newBackend(cfg.Generation)
	if err != nil {
		a.errMsg = err.Error()
		return a, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	// Buffered past the maximum message count so the pipeline goroutine
	// never blocks after the interface exits.
	a.events = make(chan tea.Msg, 2*len(types.SectionOrder)+4)
	a.state = stateRunning
	a.statuses = freshStatuses()
	a.errMsg = ""

	go runPipeline(ctx, backend, req, cfg, a.events)

	return a, a.waitForEvent()
}

// waitForEvent relays the next pipeline message into Update.
func (a *App) waitForEvent() tea.Cmd {
	events := a.events
	return func() tea.Msg {
		return <-events
	}
}

// runPipeline generates, exports, and archives one paper, reporting every
// step on events. It always sends a final runFinishedMsg.
func runPipeline(ctx context.Context, backend generate.Backend, req types.PaperRequest, cfg types.PipelineConfig, events chan<- tea.Msg) {
	doc, err := generate.Run(ctx, backend, req, cfg.Generation, func(p types.Progress) {
		events <- progressMsg(p)
	})
	if err != nil {
		events <- runFinishedMsg{err: err}
		return
	}

	result, err := export.Export(doc, req, cfg.Export, io.Discard)
	if err != nil {
		events <- runFinishedMsg{doc: doc, err: err}
		return
	}

	var warning string
	if !cfg.Library.Disabled {
		if saveErr := archive(ctx, doc, req, cfg.Library); saveErr != nil {
			warning = "library archive failed: " + saveErr.Error()
		}
	}

	events <- runFinishedMsg{doc: doc, paths: result.Paths, warning: warning}
}

func archive(ctx context.Context, doc *types.PaperDocument, req types.PaperRequest, cfg types.LibraryConfig) error {
	store, err := library.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(ctx, doc, req)
}
