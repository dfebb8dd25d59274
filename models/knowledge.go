package models

// KnowledgeEntry is a titled block of reference text used as context for the
// generative fallback. Seed-only; never mutated at runtime.
type KnowledgeEntry struct {
	ID      string `bson:"id" json:"id"`
	Title   string `bson:"title" json:"title"`
	Tags    string `bson:"tags" json:"tags"`
	Content string `bson:"content" json:"content"`
	Lang    string `bson:"lang" json:"lang"` // ru | kk | mixed
}

// FAQEntry is a (tag-string, canned-answer) pair used for deterministic
// short-circuit answers.
type FAQEntry struct {
	ID     string `bson:"id" json:"id"`
	Answer string `bson:"answer" json:"answer"`
	Tags   string `bson:"tags" json:"tags"`
}
