package models

import "time"

// Profile is a saved visitor identity. When present and complete, the intake
// flow skips the name/phone steps and pre-fills from here.
type Profile struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	FullName  string    `bson:"full_name" json:"full_name"`
	Phone     string    `bson:"phone" json:"phone"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Complete reports whether the profile can pre-fill an intake session.
func (p *Profile) Complete() bool {
	return p != nil && p.FullName != "" && p.Phone != ""
}

// DialogTurn is one (user text, assistant reply) exchange, kept for the
// generative fallback's conversation history.
type DialogTurn struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	UserText  string    `bson:"user_text" json:"user_text"`
	BotReply  string    `bson:"bot_reply" json:"bot_reply"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
