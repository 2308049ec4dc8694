package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	grpcadapter "github.com/andrescamacho/groundworks-go/internal/adapters/grpc"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/dtos"
)

const rule = "─────────────────────────────────────────────────────────────────────────────"

// printWorkshopTable prints one line per workshop
func printWorkshopTable(out io.Writer, workshops []dtos.WorkshopStatusDTO) {
	if len(workshops) == 0 {
		fmt.Fprintln(out, "No workshops found")
		return
	}

	fmt.Fprintf(out, "%-16s %-9s %-11s %-18s %-6s %s\n",
		"WORKSHOP", "STATUS", "WORKFORCE", "CURRENT", "QUEUE", "ETA")
	fmt.Fprintln(out, rule)
	for _, w := range workshops {
		current := "-"
		if w.Current != nil {
			current = fmt.Sprintf("%s (%s)", truncate(w.Current.Name, 10), percent(w.Current.StageFraction))
		}
		fmt.Fprintf(out, "%-16s %-9s %-11s %-18s %-6d %s\n",
			truncate(w.ID, 16),
			w.Status,
			fmt.Sprintf("%.1f/%.1f", w.Workforce, w.MaxWorkforce),
			current,
			len(w.Queue),
			etaText(w),
		)
	}
	fmt.Fprintf(out, "\nTotal: %d workshops\n", len(workshops))
}

// printWorkshopDetail prints the full status of one workshop
func printWorkshopDetail(out io.Writer, w dtos.WorkshopStatusDTO) {
	name := w.Name
	if name == "" {
		name = w.ID
	}
	fmt.Fprintf(out, "Workshop: %s (%s)\n", name, w.ID)
	fmt.Fprintln(out, "══════════════════════════════════════════════")
	fmt.Fprintf(out, "  Status:     %s\n", w.Status)
	fmt.Fprintf(out, "  Kinds:      %s\n", strings.Join(w.Kinds, ", "))
	fmt.Fprintf(out, "  Workforce:  %.1f / %.1f\n", w.Workforce, w.MaxWorkforce)
	fmt.Fprintf(out, "  Position:   %s\n", w.Position)
	fmt.Fprintf(out, "  ETA:        %s\n", etaText(w))
	if w.EndTimeEstimate != nil {
		fmt.Fprintf(out, "  Ends at:    %s\n", w.EndTimeEstimate.Format(time.RFC3339))
	}

	fmt.Fprintln(out, "\nCurrent job:")
	if w.Current == nil {
		fmt.Fprintln(out, "  (none)")
	} else {
		printJob(out, *w.Current)
	}

	fmt.Fprintf(out, "\nQueue (%d):\n", len(w.Queue))
	for i, j := range w.Queue {
		fmt.Fprintf(out, "  %d.", i+1)
		printJob(out, j)
	}
}

func printJob(out io.Writer, j dtos.JobDTO) {
	if !j.Valid {
		fmt.Fprintf(out, "  %-14s invalid\n", truncate(j.Ref, 14))
		return
	}
	fmt.Fprintf(out, "  %-14s %-13s stage %d/%d %6s  total %6s  %7.1fm  %s\n",
		truncate(j.Name, 14),
		j.Kind,
		j.StageIndex+1,
		j.StageCount,
		percent(j.StageFraction),
		percent(j.FractionDone),
		j.Distance,
		strings.ToLower(j.DeployState),
	)
}

// printQueueState prints the queue after a queue command
func printQueueState(out io.Writer, q *grpcadapter.QueueState) {
	current := q.Current
	if current == "" {
		current = "-"
	}
	fmt.Fprintf(out, "Workshop %s\n", q.WorkshopID)
	fmt.Fprintf(out, "  Current: %s\n", current)
	if len(q.Queue) == 0 {
		fmt.Fprintln(out, "  Queue:   (empty)")
		return
	}
	fmt.Fprintf(out, "  Queue:   %s\n", strings.Join(q.Queue, " → "))
}

func etaText(w dtos.WorkshopStatusDTO) string {
	if w.Current == nil {
		return "-"
	}
	return w.ETAText
}

func percent(fraction float64) string {
	return fmt.Sprintf("%.0f%%", fraction*100)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
