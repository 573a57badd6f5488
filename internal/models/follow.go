package models

import "time"

// Follow is a directed edge: UserID follows FollowedID.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"followed_id"`
	Followed   *User     `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"followed,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowRelation describes the edges between a viewer and one other user.
// A nil field means no edge in that direction.
type FollowRelation struct {
	Following *Follow `json:"following"`
	Followed  *Follow `json:"followed"`
}

// FollowIDSets holds the ids a user follows and the ids following them.
// The user's own id never appears in either set.
type FollowIDSets struct {
	Following []uint `json:"following"`
	Followers []uint `json:"followers"`
}

// FollowCounters aggregates a user's relation counts.
type FollowCounters struct {
	Following    int64 `json:"following"`
	Followed     int64 `json:"followed"`
	Publications int64 `json:"publications"`
}
