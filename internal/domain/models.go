package domain

import "time"

// Domain contains core models and interfaces.

// NotFound marks record fields the source site does not expose.
const NotFound = "NOT FOUND"

// ArticleRecord is a single parsed article. ID is the 1-based position of the
// article URL in the frontier.
type ArticleRecord struct {
	ID     int       `json:"id"`
	URL    string    `json:"url"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	Topics string    `json:"topics"`
	Date   time.Time `json:"date"`
	Text   string    `json:"text"`
}
