// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-engine/internal/export"
	"github.com/pdiddy/paper-engine/internal/library"
	"github.com/pdiddy/paper-engine/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the paper library (list, show, search, export, delete)",
	Long: `Library manages the local archive of generated papers. Every finished
run is stored in a SQLite database with full-text indexing over section
content. Use subcommands to browse papers, search their text, re-export
an archived paper, or delete one.`,
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived papers, newest first",
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-30s  %-20s  %-8s  %s\n",
		"ID", "Topic", "Model", "Sections", "Generated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, s := range summaries {
		topic := s.Topic
		if len(topic) > 30 {
			topic = topic[:27] + "..."
		}
		model := s.Model
		if len(model) > 20 {
			model = model[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-30s  %-20s  %-8d  %s\n",
			s.RunID, topic, model, s.SectionCount, s.GeneratedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(os.Stdout, "\n%d papers\n", len(summaries))
	return nil
}

// --- show subcommand ---

var libraryShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Print an archived paper with all sections and references",
	RunE:  runLibraryShow,
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a paper run ID (see library list)")
	}

	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	fmt.Fprintf(os.Stdout, "Topic:      %s\n", doc.Topic)
	fmt.Fprintf(os.Stdout, "Run:        %s\n", doc.RunID)
	fmt.Fprintf(os.Stdout, "Model:      %s\n", doc.Model)
	fmt.Fprintf(os.Stdout, "Generated:  %s\n\n", doc.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(os.Stdout, export.Markdown(doc))
	return nil
}

// --- search subcommand ---

var librarySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search across archived paper sections",
	Long: `Search runs an FTS5 full-text query over the section content of every
archived paper and ranks matches by relevance. Each result names the
paper and the section the match came from.`,
	RunE: runLibrarySearch,
}

func runLibrarySearch(cmd *cobra.Command, args []string) error {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	if queryText == "" {
		return fmt.Errorf("provide search terms or --query")
	}

	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), queryText)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-50s  %-20s  %s\n",
		"Rank", "Section", "Content", "Topic", "ID")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		content := r.Content
		if len(content) > 50 {
			content = content[:47] + "..."
		}
		topic := r.Topic
		if len(topic) > 20 {
			topic = topic[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-50s  %-20s  %s\n",
			i+1, r.Section, content, topic, r.RunID)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Re-export an archived paper to docx, Markdown, or HTML",
	RunE:  runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a paper run ID (see library list)")
	}

	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	req, err := store.Request(context.Background(), args[0])
	if err != nil {
		return err
	}

	markdown, _ := cmd.Flags().GetBool("markdown")
	html, _ := cmd.Flags().GetBool("html")
	req.SaveMarkdown = req.SaveMarkdown || markdown
	req.SaveHTML = req.SaveHTML || html

	cfg := types.ExportConfig{
		OutputDir: flagOrConfig(cmd, "output-dir", "export.output_dir", defaultOutputDir),
	}
	_, err = export.Export(doc, *req, cfg, os.Stdout)
	return err
}

// --- delete subcommand ---

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete an archived paper and its sections",
	RunE:  runLibraryDelete,
}

func runLibraryDelete(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a paper run ID (see library list)")
	}

	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted paper %s\n", args[0])
	return nil
}

// --- shared helpers ---

func libraryConfig(cmd *cobra.Command) types.LibraryConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.LibraryConfig{
		LibraryDir: flagOrConfig(cmd, "library-dir", "library.library_dir", "library"),
		MaxResults: maxResults,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	libraryCmd.PersistentFlags().String("library-dir", "", "directory for the paper library (default library)")
	libraryCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	libraryListCmd.Flags().Bool("json", false, "output the paper list as JSON")

	libraryShowCmd.Flags().Bool("json", false, "output the paper as JSON")

	librarySearchCmd.Flags().String("query", "", "full-text search query")
	librarySearchCmd.Flags().Bool("json", false, "output results as JSON")

	libraryExportCmd.Flags().Bool("markdown", false, "also export the paper as Markdown")
	libraryExportCmd.Flags().Bool("html", false, "also export the paper as HTML")
	libraryExportCmd.Flags().String("output-dir", "", "directory for exported papers (default output)")

	// Wire subcommands.
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryCmd.AddCommand(librarySearchCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)

	rootCmd.AddCommand(libraryCmd)
}
