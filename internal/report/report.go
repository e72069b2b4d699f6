// Package report renders human-readable summaries of the discovery cache.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/termscout/termscout/internal/providers/social"
	"github.com/termscout/termscout/internal/store/sqlite"
)

// Ranked writes the available, rated names as a table, best first.
func Ranked(w io.Writer, results []sqlite.RankedResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no rated available names yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tDOMAIN\tRATING")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s.com\t%.0f\n", i+1, r.Word, r.Word, r.Rating)
	}
	return tw.Flush()
}

// CacheSummary writes per-partition row counts in a stable order.
func CacheSummary(w io.Writer, counts map[string]int) error {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CACHE\tENTRIES")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\n", name, counts[name])
	}
	return tw.Flush()
}

// Social writes per-platform handle availability for one name.
func Social(w io.Writer, name string, results []social.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLATFORM\tURL\tAVAILABLE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", r.Platform, r.URL, r.Available)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if social.AllAvailable(results) {
		_, err := fmt.Fprintf(w, "\n%q is free on every checked platform\n", name)
		return err
	}
	return nil
}
