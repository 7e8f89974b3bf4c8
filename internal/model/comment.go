package model

import "time"

type Comment struct {
	ID        string
	Commenter string
	Comment   string
	CreatedAt time.Time
}

// PopulatedComment is a Comment with its commenter reference resolved.
type PopulatedComment struct {
	ID        string
	Commenter User
	Comment   string
	CreatedAt time.Time
}

type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

type DeleteResult struct {
	DeletedCount int64
}
