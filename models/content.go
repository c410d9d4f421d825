package models

import "time"

type Banner struct {
	BannerID  string    `json:"bannerId" bson:"bannerid"`
	Title     string    `json:"title" bson:"title"`
	Image     string    `json:"image" bson:"image"`
	Link      string    `json:"link,omitempty" bson:"link,omitempty"`
	Position  int       `json:"position" bson:"position"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Blog struct {
	BlogID    string    `json:"blogId" bson:"blogid"`
	Title     string    `json:"title" bson:"title"`
	Slug      string    `json:"slug" bson:"slug"`
	Body      string    `json:"body" bson:"body"`
	Author    string    `json:"author,omitempty" bson:"author,omitempty"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	Published bool      `json:"published" bson:"published"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
