package models

// Choice is an inline option offered alongside a reply. Token is fed back as
// the callback payload when the user picks it; the transport decides how to
// render it.
type Choice struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Reply is what the core hands back to the transport collaborator: plain text
// plus optional inline choices. No rendering format is assumed.
type Reply struct {
	Text    string   `json:"text"`
	Choices []Choice `json:"choices,omitempty"`
}

// TextReply builds a plain reply without choices.
func TextReply(text string) *Reply {
	return &Reply{Text: text}
}
