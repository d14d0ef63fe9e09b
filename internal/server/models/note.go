package models

// Note is a short text owned by exactly one user.
type Note struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	OwnerID int64  `json:"owner_id"`
}

// NoteExport points at an uploaded JSON snapshot of a user's notes.
type NoteExport struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}
