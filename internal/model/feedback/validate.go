package feedback

import "fmt"

// Validate checks that the document carries all nine metrics with scores in
// the 0-100 range.
func (d *Document) Validate() error {
	for _, section := range d.Sections() {
		if section.Metrics == nil {
			return fmt.Errorf("section %s is missing", section.ID)
		}
		for _, key := range section.MetricKeys {
			metric, ok := section.Metrics[key]
			if !ok {
				return fmt.Errorf("section %s is missing metric %s", section.ID, key)
			}
			if metric.EffectivenessScore < 0 || metric.EffectivenessScore > 100 {
				return fmt.Errorf("metric %s score %d is out of range [0,100]", key, metric.EffectivenessScore)
			}
		}
	}
	return nil
}
