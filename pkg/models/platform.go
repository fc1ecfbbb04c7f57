package models

// User is a platform user profile, fetched lazily and cached for the
// process lifetime.
type User struct {
	ID          string
	Username    string
	DisplayName string
}

// Channel is a platform channel profile
type Channel struct {
	ID   string
	Name string
}

// ThreadMessage is one message of a live thread fetch (root or reply)
type ThreadMessage struct {
	TS       string
	ThreadTS string
	UserID   string
	Text     string
}

// ReactionCount is one live reaction tally on the thread root
type ReactionCount struct {
	Name  string
	Count int
}
