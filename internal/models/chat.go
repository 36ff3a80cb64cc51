package models

// ChatMessage is one turn in an assistant conversation, in the shape the
// chat-completions API expects.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
