package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/ritzau/jsgraph/pkg/analysis"
)

type statRow struct {
	label string
	value int
}

// PrintStats prints the aligned statistics table of a run
func PrintStats(w io.Writer, report *analysis.Report, outputPath string) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	s := report.Stats

	bold.Fprintln(w, "Code Knowledge Graph Statistics")
	bold.Fprintln(w, "===============================")

	rows := []statRow{
		{"Total files", s.TotalFiles},
		{"Files processed", s.FilesProcessed},
		{"Directories", s.Directories},
		{"Classes", s.TotalClasses},
		{"Functions", s.TotalFunctions},
		{"Exports", s.TotalExports},
		{"Components", s.TotalComponents},
		{"Hooks", s.TotalHooks},
		{"Dependencies", s.TotalDependencies},
		{"Imports", s.TotalImports},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-18s ", row.label+":")
		cyan.Fprintf(w, "%8d\n", row.value)
	}

	fmt.Fprintf(w, "%-18s ", "Unresolved imports:")
	if s.UnresolvedImports > 0 {
		yellow.Fprintf(w, "%8d\n", s.UnresolvedImports)
	} else {
		green.Fprintf(w, "%8d\n", 0)
	}

	fmt.Fprintf(w, "%-18s ", "Failed files:")
	if s.FailedFiles > 0 {
		red.Fprintf(w, "%8d\n", s.FailedFiles)
	} else {
		green.Fprintf(w, "%8d\n", 0)
	}
	fmt.Fprintln(w)

	if len(report.Cycles) > 0 {
		yellow.Fprintf(w, "Import cycles: %d\n", len(report.Cycles))
		for _, c := range report.Cycles {
			fmt.Fprintf(w, "  %v\n", c.Files)
		}
		fmt.Fprintln(w)
	}

	if failures := report.Failures(); len(failures) > 0 {
		red.Fprintln(w, "FAILED FILES:")
		for _, f := range failures {
			yellow.Fprintf(w, "  %s\n", f.Path)
			fmt.Fprintf(w, "    %s\n", f.Error)
		}
		fmt.Fprintln(w)
	}

	if outputPath != "" {
		green.Fprintf(w, "✓ Knowledge graph saved to %s", outputPath)
		fmt.Fprintf(w, " (%s)\n", report.Duration.Round(time.Millisecond))
	}
}
