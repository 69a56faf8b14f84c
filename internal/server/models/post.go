package models

import (
	"slices"
	"time"
)

// Category tags a post.
type Category string

const (
	CategoryGeneral      Category = "GENERAL"
	CategoryQuestion     Category = "QUESTION"
	CategoryResource     Category = "RESOURCE"
	CategoryProject      Category = "PROJECT"
	CategoryAnnouncement Category = "ANNOUNCEMENT"
)

// Categories lists every accepted category.
var Categories = []Category{
	CategoryGeneral,
	CategoryQuestion,
	CategoryResource,
	CategoryProject,
	CategoryAnnouncement,
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Post is a short text update. Image holds an inline base64 payload.
// LikedIDs is a set: no duplicates, order carries no meaning.
type Post struct {
	ID         string    `json:"id" bson:"_id"`
	Body       string    `json:"body" bson:"body"`
	Category   Category  `json:"category" bson:"category"`
	AuthUserID string    `json:"authUserId" bson:"authUserId"`
	Image      *string   `json:"image" bson:"image"`
	LikedIDs   []string  `json:"likedIds" bson:"likedIds"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// LikedBy reports whether userID is in the liker set.
func (p *Post) LikedBy(userID string) bool {
	return slices.Contains(p.LikedIDs, userID)
}
