package score

import "github.com/orviss/podium/backend/internal/model/feedback"

// MetricScore is one sub-metric's score with its display label.
type MetricScore struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

// SectionScore aggregates one metric group.
type SectionScore struct {
	ID      feedback.SectionID `json:"id"`
	Label   string             `json:"label"`
	Score   int                `json:"score"`
	Metrics []MetricScore      `json:"metrics"`
}

// Report carries every granularity the scoreboard renders.
type Report struct {
	Sections []SectionScore `json:"sections"`
	Overall  int            `json:"overall"`
}

// BuildReport scores a full feedback document: each section is the rounded
// mean of its three metrics, the overall is the rounded mean of the three
// section scores.
func BuildReport(doc *feedback.Document) Report {
	sections := doc.Sections()

	report := Report{Sections: make([]SectionScore, 0, len(sections))}
	sectionScores := make([]int, 0, len(sections))

	for _, section := range sections {
		metrics := make([]MetricScore, 0, len(section.MetricKeys))
		for _, key := range section.MetricKeys {
			if metric, ok := section.Metrics[key]; ok {
				metrics = append(metrics, MetricScore{
					Key:   key,
					Label: feedback.Humanize(key),
					Score: metric.EffectivenessScore,
				})
			}
		}

		sectionScore := Section(section.Scores())
		sectionScores = append(sectionScores, sectionScore)
		report.Sections = append(report.Sections, SectionScore{
			ID:      section.ID,
			Label:   feedback.SectionLabel(section.ID),
			Score:   sectionScore,
			Metrics: metrics,
		})
	}

	report.Overall = Overall(sectionScores)
	return report
}
