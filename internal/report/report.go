// Package report renders build results and dataset summaries as tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"match-analyzer/internal/dataset"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintBuildSummary prints the per-status counts of a build and the dataset
// size after it.
func PrintBuildSummary(w io.Writer, s dataset.Summary, rows int) {
	fmt.Fprintf(w, "\n=== Build ===\n\n")
	table := newTable(w)
	table.Header("ADDED", "DUPLICATE", "SKIPPED", "ERROR", "WINNER ANOMALY", "ROWS")
	table.Append(
		strconv.Itoa(s.Added),
		strconv.Itoa(s.Duplicates),
		strconv.Itoa(s.Skipped),
		strconv.Itoa(s.Errored),
		strconv.Itoa(s.Anomalies),
		strconv.Itoa(rows),
	)
	table.Render()
}

// PrintOutcomes lists every match that was not added, with its reason.
// Nothing is printed when every match was added.
func PrintOutcomes(w io.Writer, outcomes []dataset.Outcome) {
	var notable []dataset.Outcome
	for _, o := range outcomes {
		if o.Status != dataset.StatusAdded {
			notable = append(notable, o)
		}
	}
	if len(notable) == 0 {
		return
	}

	fmt.Fprintf(w, "\n--- Not added ---\n\n")
	table := newTable(w)
	table.Header("MATCH", "STATUS", "REASON")
	for _, o := range notable {
		reason := "—"
		switch {
		case o.Reason != "":
			reason = string(o.Reason)
		case o.Err != nil:
			reason = o.Err.Error()
		}
		table.Append(o.MatchID, string(o.Status), reason)
	}
	table.Render()
}

// PrintDatasetStats prints win rates by early-game lead.
func PrintDatasetStats(w io.Writer, st dataset.Stats) {
	if st.Rows == 0 {
		fmt.Fprintln(w, "Dataset is empty. Run 'earlygame build' to add matches.")
		return
	}

	fmt.Fprintf(w, "\n=== Dataset ===\n\n")
	fmt.Fprintf(w, "  Rows             : %d\n", st.Rows)
	fmt.Fprintf(w, "  Win rate         : %s\n", formatRate(st.Overall))
	fmt.Fprintf(w, "  Winner anomalies : %d\n", st.Anomalies)

	fmt.Fprintf(w, "\n--- Win rate by lead ---\n\n")
	table := newTable(w)
	table.Header("LEAD", "AHEAD", "EVEN", "BEHIND")
	appendSplit(table, "gold", st.Gold)
	appendSplit(table, "kills", st.Kills)
	if st.HasObjectives {
		appendSplit(table, "first tower", st.FirstTower)
		appendSplit(table, "first dragon", st.FirstDragon)
		appendSplit(table, "first herald", st.FirstHerald)
	}
	table.Render()
}

func appendSplit(table *tablewriter.Table, name string, s dataset.Split) {
	table.Append(name, formatRate(s.Ahead), formatRate(s.Even), formatRate(s.Behind))
}

// formatRate renders "55.0% (11/20)", or "—" when there are no games
func formatRate(r dataset.Rate) string {
	if r.Games == 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f%% (%d/%d)", r.Pct(), r.Wins, r.Games)
}
