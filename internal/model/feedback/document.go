package feedback

// TimestampedNote is one annotation anchored to a range of the recording.
// TimeRange keeps whatever free-form string the analysis service produced;
// parsing happens downstream.
type TimestampedNote struct {
	TimeRange string   `json:"time_range"`
	Details   []string `json:"details"`
}

// Metric is one sub-metric of a section, scored 0-100.
type Metric struct {
	EffectivenessScore  int               `json:"effectiveness_score"`
	OverallFeedback     string            `json:"overall_feedback"`
	TimestampedFeedback []TimestampedNote `json:"timestamped_feedback"`
}

// OverallFeedback summarizes the whole performance.
type OverallFeedback struct {
	Summary            string   `json:"summary"`
	Strengths          []string `json:"strengths"`
	AreasToImprove     []string `json:"areas_to_improve"`
	PrioritizedActions []string `json:"prioritized_actions"`
}

// Document is the full analysis result for one recorded speech. It is
// immutable once received; consumers read, never write.
type Document struct {
	NonVerbal       map[string]Metric `json:"non_verbal"`
	Delivery        map[string]Metric `json:"delivery"`
	Content         map[string]Metric `json:"content"`
	OverallFeedback OverallFeedback   `json:"overall_feedback"`
}

// SectionID identifies one of the three fixed metric groups.
type SectionID string

const (
	SectionNonVerbal SectionID = "non_verbal"
	SectionDelivery  SectionID = "delivery"
	SectionContent   SectionID = "content"
)

// Section is one group of exactly three metrics. The three groups share
// this shape so scoring and timeline code is written once.
type Section struct {
	ID         SectionID
	MetricKeys []string
	Metrics    map[string]Metric
}

// Metric keys per section, in the order the analysis service declares them.
var (
	nonVerbalKeys = []string{"eye_contact", "gestures", "posture"}
	deliveryKeys  = []string{"clarity_enunciation", "intonation", "eloquence_filler_words"}
	contentKeys   = []string{"organization_flow", "persuasiveness_impact", "clarity_of_message"}
)

// Sections returns the three metric groups in fixed presentation order.
func (d *Document) Sections() []Section {
	return []Section{
		{ID: SectionNonVerbal, MetricKeys: nonVerbalKeys, Metrics: d.NonVerbal},
		{ID: SectionDelivery, MetricKeys: deliveryKeys, Metrics: d.Delivery},
		{ID: SectionContent, MetricKeys: contentKeys, Metrics: d.Content},
	}
}

// Scores returns the section's effectiveness scores in declared key order.
func (s Section) Scores() []int {
	scores := make([]int, 0, len(s.MetricKeys))
	for _, key := range s.MetricKeys {
		if metric, ok := s.Metrics[key]; ok {
			scores = append(scores, metric.EffectivenessScore)
		}
	}
	return scores
}
