package models

import "time"

type NotificationType string

const NotificationLike NotificationType = "LIKE"

// Notification is addressed to AuthUserID, the recipient.
type Notification struct {
	ID         string           `json:"id" bson:"_id"`
	Body       string           `json:"body" bson:"body"`
	AuthUserID string           `json:"authUserId" bson:"authUserId"`
	Type       NotificationType `json:"type" bson:"type"`
	CreatedAt  time.Time        `json:"createdAt" bson:"createdAt"`
}
