package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/causewaykb/causeway/internal/util"
	"github.com/causewaykb/causeway/pkg/corpus"
	"github.com/causewaykb/causeway/pkg/coverage"
	"github.com/causewaykb/causeway/pkg/logger"
	"github.com/causewaykb/causeway/pkg/logger/console"
	fsstore "github.com/causewaykb/causeway/pkg/store/fs"

	"github.com/spf13/cobra"
)

var (
	wikiDir    string
	jsonOutput bool
	orphans    bool
	topLinked  bool
	pageSlug   string
	maxMissing int

	orphanMaxIncoming      int
	minImportance          int
	underlinkedMaxOutgoing int
	underlinkedMinWords    int
	lowDensityCutoff       float64
	rankSize               int

	rootCmd = &cobra.Command{
		Use:          "linkcov",
		Short:        "Analyze cross-link coverage of a wiki directory",
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	defaults := coverage.DefaultThresholds()

	rootCmd.Flags().StringVar(&wikiDir, "dir", "./wiki", "wiki directory to analyze")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the report as JSON")
	rootCmd.Flags().BoolVar(&orphans, "orphans", false, "only list orphaned pages")
	rootCmd.Flags().BoolVar(&topLinked, "top-linked", false, "only list the most linked pages")
	rootCmd.Flags().StringVar(&pageSlug, "page", "", "report link coverage for a single page")
	rootCmd.Flags().IntVar(&maxMissing, "max-missing", 5, "missing inbound links tolerated before a nonzero exit")

	rootCmd.Flags().IntVar(&orphanMaxIncoming, "orphan-max-incoming", defaults.OrphanMaxIncoming, "incoming links at or below which a page is orphaned")
	rootCmd.Flags().IntVar(&minImportance, "min-importance", defaults.MinImportance, "importance below which pages are ignored by the classifiers")
	rootCmd.Flags().IntVar(&underlinkedMaxOutgoing, "underlinked-max-outgoing", defaults.UnderlinkedMaxOutgoing, "outgoing links below which a page can be underlinked")
	rootCmd.Flags().IntVar(&underlinkedMinWords, "underlinked-min-words", defaults.UnderlinkedMinWords, "word count above which a page can be underlinked")
	rootCmd.Flags().Float64Var(&lowDensityCutoff, "low-density-cutoff", defaults.LowDensityCutoff, "link density below which a page can be underlinked")
	rootCmd.Flags().IntVar(&rankSize, "rank-size", defaults.RankSize, "entries per ranked list")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	src, err := fsstore.NewSource(fsstore.SourceParams{PagesDir: wikiDir})
	if err != nil {
		return err
	}

	pages, err := src.LoadPages(ctx)
	if err != nil {
		return err
	}

	if pageSlug != "" {
		return runPage(pages, src)
	}

	thresholds := coverage.Thresholds{
		OrphanMaxIncoming:      orphanMaxIncoming,
		MinImportance:          minImportance,
		UnderlinkedMaxOutgoing: underlinkedMaxOutgoing,
		UnderlinkedMinWords:    underlinkedMinWords,
		LowDensityCutoff:       lowDensityCutoff,
		RankSize:               rankSize,
	}

	index, precomputed, err := src.BacklinkIndex(ctx)
	if err != nil {
		return err
	}
	if precomputed {
		logger.Debug("Using precomputed backlink index")
	}

	report := coverage.AnalyzeWithIndex(pages, index, thresholds)

	if jsonOutput {
		return writeJSON(report)
	}

	report.WriteText(os.Stdout, coverage.RenderOptions{
		OrphansOnly:   orphans,
		TopLinkedOnly: topLinked,
	})
	return nil
}

// runPage reports coverage for one page and exits nonzero when too
// many important pages mention it without linking to it, so the
// command is usable as a CI gate.
func runPage(pages []corpus.Page, src *fsstore.Source) error {
	report := coverage.AnalyzeEntity(pages, pageSlug)

	if jsonOutput {
		if err := writeJSON(report); err != nil {
			return err
		}
	} else {
		if path, ok := src.CanonicalPath(report.Slug); ok {
			fmt.Fprintf(os.Stdout, "Path: %s\n", path)
		}
		report.WriteText(os.Stdout)
	}

	if gateTripped(report, maxMissing) {
		os.Exit(1)
	}
	return nil
}

// gateTripped reports whether the page has more missing inbound link
// opportunities than the run tolerates.
func gateTripped(report *coverage.EntityReport, maxMissing int) bool {
	return len(report.MissingInbound) > maxMissing
}

func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

func main() {
	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	}))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
