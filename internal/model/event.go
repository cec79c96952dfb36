package model

import "time"

type Creator struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Participants []string  `json:"participants"`
	CreatedBy    Creator   `json:"createdBy"`
	Comments     []Comment `json:"comments"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasParticipant reports whether username already joined the event.
func (e Event) HasParticipant(username string) bool {
	for _, p := range e.Participants {
		if p == username {
			return true
		}
	}
	return false
}

// EventChanges holds the optional fields of an update; nil means unchanged.
type EventChanges struct {
	Title       *string
	Description *string
	Date        *time.Time
}
