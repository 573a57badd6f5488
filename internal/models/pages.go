package models

// UsersPage is one page of the user directory annotated with the viewer's
// follow id sets.
type UsersPage struct {
	Users          []User `json:"users"`
	UsersFollowing []uint `json:"users_following"`
	UsersFollowed  []uint `json:"users_followed"`
	Total          int64  `json:"total"`
	Pages          int    `json:"pages"`
}

// FollowsPage is one page of follow edges annotated with the viewer's
// follow id sets.
type FollowsPage struct {
	Follows        []Follow `json:"follows"`
	UsersFollowing []uint   `json:"users_following"`
	UsersFollowed  []uint   `json:"users_followed"`
	Total          int64    `json:"total"`
	Pages          int      `json:"pages"`
}

// Profile is a user together with the viewer's relation to them.
type Profile struct {
	User      *User   `json:"user"`
	Following *Follow `json:"following"`
	Followed  *Follow `json:"followed"`
}
