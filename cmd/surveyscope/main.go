// Package main provides the CLI entrypoint for surveyscope.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/avelanarius/surveyscope/internal/answer"
	"github.com/avelanarius/surveyscope/internal/config"
	"github.com/avelanarius/surveyscope/internal/distribution"
	"github.com/avelanarius/surveyscope/internal/export"
	"github.com/avelanarius/surveyscope/internal/loader"
	"github.com/avelanarius/surveyscope/internal/question"
	"github.com/avelanarius/surveyscope/internal/report"
	"github.com/avelanarius/surveyscope/internal/session"
	"github.com/avelanarius/surveyscope/internal/tui"
)

const (
	defaultTopN       = 10
	defaultChartWidth = 0 // derive from terminal
)

var (
	rootDelimiter  string
	rootChartWidth int
	rootTopN       int

	questionsSearch string

	distFilters []string
	distTable   bool
	distSave    bool

	snapshotsID int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "surveyscope <file>",
		Short:         "Interactive survey data explorer",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runExploreCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootDelimiter, "delimiter", answer.DefaultDelimiter, "multi-select answer delimiter")
	rootCmd.PersistentFlags().IntVar(&rootChartWidth, "chart-width", defaultChartWidth, "maximum bar length in characters (0: terminal width)")
	rootCmd.PersistentFlags().IntVar(&rootTopN, "top-n", defaultTopN, "number of answers in summary tables")

	rootCmd.AddCommand(newQuestionsCmd())
	rootCmd.AddCommand(newOptionsCmd())
	rootCmd.AddCommand(newDistributionCmd())
	rootCmd.AddCommand(newSnapshotsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runExploreCmd(cmd *cobra.Command, args []string) error {
	renderer, err := resolveRenderer(cmd)
	if err != nil {
		return err
	}
	sess, err := openSession(args[0], renderer.Delimiter)
	if err != nil {
		return err
	}

	model := tui.NewModel(sess, renderer)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions <file>",
		Short: "List question columns",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuestionsCmd,
	}
	cmd.Flags().StringVar(&questionsSearch, "search", "", "keyword to match against question names")
	return cmd
}

func runQuestionsCmd(cmd *cobra.Command, args []string) error {
	renderer, err := resolveRenderer(cmd)
	if err != nil {
		return err
	}
	sess, err := openSession(args[0], renderer.Delimiter)
	if err != nil {
		return err
	}

	view := sess.Current()
	out := cmd.OutOrStdout()
	if questionsSearch == "" {
		if err := renderer.QuestionList(out, view); err != nil {
			return fmt.Errorf("failed to write questions: %w", err)
		}
		return nil
	}
	matches := question.Search(view, questionsSearch)
	if err := renderer.SearchResults(out, view, questionsSearch, matches); err != nil {
		return fmt.Errorf("failed to write search results: %w", err)
	}
	return nil
}

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options <file> <question>",
		Short: "List the answer options of one question",
		Args:  cobra.ExactArgs(2),
		RunE:  runOptionsCmd,
	}
}

func runOptionsCmd(cmd *cobra.Command, args []string) error {
	renderer, err := resolveRenderer(cmd)
	if err != nil {
		return err
	}
	sess, err := openSession(args[0], renderer.Delimiter)
	if err != nil {
		return err
	}

	q := args[1]
	view := sess.Current()
	options, err := question.Options(view, q, renderer.Delimiter)
	if err != nil {
		return fmt.Errorf("failed to list options: %w", err)
	}
	multi, err := question.IsMultiAnswer(view, q, renderer.Delimiter)
	if err != nil {
		return fmt.Errorf("failed to classify question: %w", err)
	}
	if err := renderer.OptionList(cmd.OutOrStdout(), q, options, multi); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}
	return nil
}

func newDistributionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribution <file> <question>",
		Short: "Show the answer distribution of one question",
		Args:  cobra.ExactArgs(2),
		RunE:  runDistributionCmd,
	}
	cmd.Flags().StringArrayVar(&distFilters, "filter", nil, "filter as Question=Option (repeatable, applied in order)")
	cmd.Flags().BoolVar(&distTable, "table", false, "render a summary table instead of a bar chart")
	cmd.Flags().BoolVar(&distSave, "save", false, "save the distribution as a snapshot")
	return cmd
}

func runDistributionCmd(cmd *cobra.Command, args []string) error {
	renderer, err := resolveRenderer(cmd)
	if err != nil {
		return err
	}
	sess, err := openSession(args[0], renderer.Delimiter)
	if err != nil {
		return err
	}

	for _, raw := range distFilters {
		q, option, err := splitFilterArg(raw)
		if err != nil {
			return err
		}
		remaining, err := sess.ApplyFilter(q, option)
		if err != nil {
			return fmt.Errorf("failed to apply filter %q: %w", raw, err)
		}
		logErrf("Filter %s=%s: %d respondents remain\n", q, option, remaining)
	}

	q := args[1]
	dist, err := distribution.Compute(sess.Current(), q, renderer.Delimiter)
	if err != nil {
		return fmt.Errorf("failed to compute distribution: %w", err)
	}

	out := cmd.OutOrStdout()
	if distTable {
		err = renderer.SummaryTable(out, dist)
	} else {
		err = renderer.BarChart(out, dist)
	}
	if err != nil {
		return fmt.Errorf("failed to render distribution: %w", err)
	}
	if err := renderer.DistributionFooter(out, dist); err != nil {
		return fmt.Errorf("failed to render distribution: %w", err)
	}

	if distSave {
		id, err := saveSnapshot(sess, dist)
		if err != nil {
			return err
		}
		logErrf("Saved snapshot %d\n", id)
	}
	return nil
}

func saveSnapshot(sess *session.Session, dist distribution.Distribution) (int64, error) {
	store, err := export.Open(config.DefaultSnapshotDBPath())
	if err != nil {
		return 0, fmt.Errorf("failed to open snapshot db: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logErrf("failed to close snapshot db: %v\n", cerr)
		}
	}()

	snap := export.Snapshot{
		CreatedAt:  time.Now(),
		SourcePath: sess.SourcePath(),
		Question:   dist.Question,
		Kind:       dist.Kind.String(),
		Total:      dist.Total,
		Filters:    export.DescribeFilters(sess.ActiveFilters()),
	}
	id, err := store.InsertSnapshot(context.Background(), snap, dist)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return id, nil
}

func newSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List saved distribution snapshots",
		Args:  cobra.NoArgs,
		RunE:  runSnapshotsCmd,
	}
	cmd.Flags().Int64Var(&snapshotsID, "id", 0, "show the stored answers of one snapshot")
	return cmd
}

func runSnapshotsCmd(cmd *cobra.Command, _ []string) error {
	store, err := export.Open(config.DefaultSnapshotDBPath())
	if err != nil {
		return fmt.Errorf("failed to open snapshot db: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logErrf("failed to close snapshot db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if snapshotsID > 0 {
		entries, err := store.SnapshotAnswers(context.Background(), snapshotsID)
		if err != nil {
			return fmt.Errorf("failed to load snapshot %d: %w", snapshotsID, err)
		}
		if len(entries) == 0 {
			return fmt.Errorf("snapshot %d not found", snapshotsID)
		}
		for _, entry := range entries {
			if _, err := fmt.Fprintf(out, "%s\t%d\t%.1f%%\n", entry.Answer, entry.Count, entry.Percentage); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	snaps, err := store.ListSnapshots(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		logErrln("No snapshots saved yet. Save with: surveyscope distribution <file> <question> --save")
		return nil
	}
	for _, snap := range snaps {
		filters := snap.Filters
		if filters == "" {
			filters = "-"
		}
		line := fmt.Sprintf("%d\t%s\t%s\t%s\ttotal=%d\tfilters=%s",
			snap.ID, snap.CreatedAt.Format("2006-01-02 15:04"), snap.Question, snap.Kind, snap.Total, filters)
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func resolveRenderer(cmd *cobra.Command) (report.Renderer, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return report.Renderer{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "delimiter", &rootDelimiter, fileCfg.Explorer.Delimiter)
	applyIntConfig(cmd, "chart-width", &rootChartWidth, fileCfg.Explorer.ChartWidth)
	applyIntConfig(cmd, "top-n", &rootTopN, fileCfg.Explorer.TopN)

	if rootDelimiter == "" {
		return report.Renderer{}, fmt.Errorf("--delimiter must not be empty")
	}
	if rootChartWidth < 0 {
		return report.Renderer{}, fmt.Errorf("--chart-width must be >= 0")
	}
	if rootTopN < 0 {
		return report.Renderer{}, fmt.Errorf("--top-n must be >= 0")
	}

	return report.Renderer{
		BarWidth:  rootChartWidth,
		TopN:      rootTopN,
		Delimiter: rootDelimiter,
	}, nil
}

func openSession(path, delim string) (*session.Session, error) {
	table, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	sess := session.New(table.View(), delim, path)
	summary := sess.Summary()
	logErrf("Loaded %d respondents, %d questions\n", summary.Respondents, summary.Questions)
	return sess, nil
}

func splitFilterArg(raw string) (string, string, error) {
	idx := strings.Index(raw, "=")
	if idx < 0 {
		return "", "", fmt.Errorf("invalid --filter value %q (expected Question=Option)", raw)
	}
	q := strings.TrimSpace(raw[:idx])
	option := strings.TrimSpace(raw[idx+1:])
	if q == "" || option == "" {
		return "", "", fmt.Errorf("invalid --filter value %q (expected Question=Option)", raw)
	}
	return q, option, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# surveyscope configuration
# Uncomment a value to enable it. CLI flags override config values.

[explorer]
# delimiter = %q          # Multi-select answer delimiter
# chart-width = %d        # Maximum bar length in characters (0: terminal width)
# top-n = %d              # Number of answers in summary tables
`,
		answer.DefaultDelimiter,
		defaultChartWidth,
		defaultTopN,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
