package conversation

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Origin tells the receiving agent who produced a user turn.
type Origin int

const (
	OriginUser Origin = iota
	OriginTool
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Reply is what Send hands back after sanitisation. Failure is set when the
// completion backend failed; Text then carries a readable error instead of an
// assistant turn.
type Reply struct {
	Text    string
	Record  map[string]any
	Failure error
}
