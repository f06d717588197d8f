// Package timeline merges the per-metric timestamped annotations of a
// feedback document into one chronological sequence for video seeking.
package timeline

import (
	"sort"
	"strings"

	"github.com/orviss/podium/backend/internal/analysis/timerange"
	"github.com/orviss/podium/backend/internal/model/feedback"
)

// Entry is one annotation positioned on the playback time axis.
type Entry struct {
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Details     []string `json:"details"`
}

// Build walks the document in fixed section order, then declared metric
// order, then note order, and returns the entries sorted by start time.
// Notes with a blank or unparsable time range are dropped. The sort is
// stable so equal starts keep their discovery order.
func Build(doc *feedback.Document) []Entry {
	var entries []Entry

	for _, section := range doc.Sections() {
		category := feedback.SectionLabel(section.ID)
		for _, key := range section.MetricKeys {
			metric, ok := section.Metrics[key]
			if !ok {
				continue
			}
			label := feedback.Humanize(key)

			for _, note := range metric.TimestampedFeedback {
				if strings.TrimSpace(note.TimeRange) == "" {
					continue
				}
				span := timerange.Parse(note.TimeRange)
				if span.IsZero() {
					continue
				}

				entries = append(entries, Entry{
					Start:       span.Start,
					End:         span.End,
					Category:    category,
					SubCategory: label,
					Details:     note.Details,
				})
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start < entries[j].Start
	})

	return entries
}
