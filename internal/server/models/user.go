// Package models holds the documents stored by learnfeed. Field tags cover
// the JSON API and the mongo document layout.
package models

import "time"

// User is created on first sign-in from the identity provider's profile.
// ID is the provider's stable user id.
type User struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Image         string    `json:"image,omitempty" bson:"image,omitempty"`
	Bio           string    `json:"bio,omitempty" bson:"bio,omitempty"`
	FollowerCount int64     `json:"followerCount" bson:"followerCount"`
	FollowingIDs  []string  `json:"followingIds" bson:"followingIds"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// IsFollowing reports whether u follows userID.
func (u *User) IsFollowing(userID string) bool {
	for _, id := range u.FollowingIDs {
		if id == userID {
			return true
		}
	}
	return false
}
