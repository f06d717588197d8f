package feedback

import "strings"

// displayNames covers every metric key the document schema can contain, so
// labels stay stable even if the generic rule ever changes.
var displayNames = map[string]string{
	"eye_contact":            "Eye Contact",
	"gestures":               "Gestures",
	"posture":                "Posture",
	"clarity_enunciation":    "Clarity Enunciation",
	"intonation":             "Intonation",
	"eloquence_filler_words": "Eloquence Filler Words",
	"organization_flow":      "Organization Flow",
	"persuasiveness_impact":  "Persuasiveness Impact",
	"clarity_of_message":     "Clarity Of Message",
}

// Humanize turns a metric key into its display label: underscores become
// spaces and each word is title-cased.
func Humanize(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}

	words := strings.Split(strings.TrimSpace(key), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// SectionLabel maps a section id to its display label.
func SectionLabel(id SectionID) string {
	switch id {
	case SectionNonVerbal:
		return "Non-Verbal"
	case SectionDelivery:
		return "Delivery"
	case SectionContent:
		return "Content"
	default:
		return Humanize(string(id))
	}
}
