package domain

import "time"

// Comment is an append-only note on an item. Comments carry no edit or
// delete path; authorship is fixed at creation.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	ItemID    string    `db:"item_id" json:"itemID"`
	AuthorID  string    `db:"author_id" json:"authorID"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Author projection resolved by the repository at read time.
	AuthorName string `db:"author_name" json:"authorName"`
}
