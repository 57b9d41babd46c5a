package entity

import (
	"fmt"
	"strings"
)

// Roles a chat message can carry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant || role == RoleSystem
}

// ChatMessage is a single chat turn. Subtype is an open, free-form tag
// (search_query, loading, message, suggestion, ...) used only to classify
// output lines, never for upstream routing.
type ChatMessage struct {
	Role    string
	Subtype string
	Content string
}

// Render returns the canonical textual form of the message, used when
// folding history into the upstream conversation context.
func (m ChatMessage) Render() string {
	return fmt.Sprintf("[%s](#%s)\n%s", m.Role, m.Subtype, m.Content)
}

// BuildContext folds prior turns into one context block. Messages are
// rendered in order and separated by blank lines; an empty history yields
// the empty string.
func BuildContext(history []ChatMessage) string {
	if len(history) == 0 {
		return ""
	}
	parts := make([]string, len(history))
	for i, m := range history {
		parts[i] = m.Render()
	}
	return strings.Join(parts, "\n\n")
}
