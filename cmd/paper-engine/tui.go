package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-engine/internal/tui"
	"github.com/pdiddy/paper-engine/pkg/types"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive paper generation interface",
	Long: `Tui opens a full-screen terminal interface for generating papers.
Fill in the topic form, watch sections complete as they are written, and
review the export paths when the run finishes. Flags and the config file
provide the defaults shown in the form.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("provider", "", "AI provider: gemini, openai, or anthropic (default gemini)")
	tuiCmd.Flags().String("model", "", "model identifier (default depends on provider)")
	tuiCmd.Flags().String("api-key", "", "API key for the provider (overrides env and .secrets/)")
	tuiCmd.Flags().Duration("delay", 0, "pause between consecutive sections (default 1s)")
	tuiCmd.Flags().String("output-dir", "", "directory for exported papers (default output)")
	tuiCmd.Flags().String("library-dir", "", "directory for the paper library (default library)")
	tuiCmd.Flags().Bool("no-archive", false, "skip archiving finished papers in the library")

	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	noArchive, _ := cmd.Flags().GetBool("no-archive")

	libCfg := libraryConfig(cmd)
	libCfg.Disabled = noArchive

	cfg := types.PipelineConfig{
		Generation: generationConfigFromFlags(cmd),
		Export: types.ExportConfig{
			OutputDir: flagOrConfig(cmd, "output-dir", "export.output_dir", defaultOutputDir),
		},
		Library: libCfg,
	}

	resolver := func(provider types.AIProvider) string {
		return resolveAPIKey(cmd, provider)
	}

	p := tea.NewProgram(
		tui.NewApp(cfg, tui.WithKeyResolver(resolver)),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
