package models

// Publication is a text post with an optional attached image file name.
// CreatedAt holds unix seconds so feed ordering is stable across drivers.
type Publication struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Text      string `gorm:"type:text;not null" json:"text"`
	File      string `json:"file"`
	CreatedAt int64  `gorm:"autoCreateTime;index" json:"created_at"`
}

// FeedPage is one page of a user's timeline.
type FeedPage struct {
	Publications []Publication `json:"publications"`
	TotalItems   int64         `json:"total_items"`
	Page         int           `json:"page"`
	Pages        int           `json:"pages"`
}
