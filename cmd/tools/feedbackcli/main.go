// feedbackcli scores a feedback document from disk and prints the derived
// report and timeline, useful for checking analysis output by hand.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/orviss/podium/backend/internal/analysis/score"
	"github.com/orviss/podium/backend/internal/model/feedback"
	"github.com/orviss/podium/backend/internal/timeline"
)

func main() {
	path := flag.String("file", "", "path to a feedback document JSON file")
	flag.Parse()

	in := *path
	if in == "" && flag.NArg() > 0 {
		in = flag.Arg(0)
	}
	if in == "" {
		log.Fatal("usage: feedbackcli [-file path] <feedback.json>")
	}

	raw, err := os.ReadFile(in)
	if err != nil {
		log.Fatal(err)
	}

	var doc feedback.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Fatalf("failed to parse feedback document: %v", err)
	}
	if err := doc.Validate(); err != nil {
		log.Fatalf("invalid feedback document: %v", err)
	}

	report := score.BuildReport(&doc)
	for _, section := range report.Sections {
		fmt.Printf("%s: %d\n", section.Label, section.Score)
		for _, metric := range section.Metrics {
			fmt.Printf("  %s: %d\n", metric.Label, metric.Score)
		}
	}
	fmt.Printf("Overall: %d\n\n", report.Overall)

	entries := timeline.Build(&doc)
	fmt.Printf("Timeline (%d entries):\n", len(entries))
	for _, entry := range entries {
		fmt.Printf("  %7.2fs  %-10s %-24s %v\n", entry.Start, entry.Category, entry.SubCategory, entry.Details)
	}
}
