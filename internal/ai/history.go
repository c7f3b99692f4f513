package ai

import (
	"bytes"
	"encoding/json"
	"strings"
)

const maxHistoryTurns = 6

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior message of the conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NormalizeHistory keeps at most the last six entries of a raw JSON history,
// coerces every role other than "assistant" to "user", trims the content
// and drops entries left empty. Anything that is not a JSON array yields no
// history.
func NormalizeHistory(raw json.RawMessage) []Turn {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return []Turn{}
	}
	if len(items) > maxHistoryTurns {
		items = items[len(items)-maxHistoryTurns:]
	}

	turns := make([]Turn, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(item, &fields)

		role := RoleUser
		var r string
		if json.Unmarshal(fields["role"], &r) == nil && r == string(RoleAssistant) {
			role = RoleAssistant
		}

		content := strings.TrimSpace(textValue(fields["content"]))
		if content == "" {
			continue
		}
		turns = append(turns, Turn{Role: role, Content: content})
	}
	return turns
}

func textValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("false")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}
