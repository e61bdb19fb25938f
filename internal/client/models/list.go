package models

// ListSummary is a tier list without its items.
type ListSummary struct {
	ListID      ID        `json:"list_id"`
	UserID      ID        `json:"user_id,omitempty"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
	ItemCount   int       `json:"item_count"`
}
