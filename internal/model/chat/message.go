package chat

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a feedback conversation. The transcript is
// append-only; messages are never edited or removed.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
