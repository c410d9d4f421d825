package models

import "time"

type Product struct {
	ProductID   string   `json:"productId" bson:"productid"`
	Name        string   `json:"name" bson:"name"`
	Slug        string   `json:"slug" bson:"slug"`
	Description string   `json:"description" bson:"description"`
	Price       float64  `json:"price" bson:"price"`
	Stock       int      `json:"stock" bson:"stock"`
	Category    string   `json:"category" bson:"category"`
	Collections []string `json:"collections,omitempty" bson:"collections,omitempty"`
	Images      []string `json:"images,omitempty" bson:"images,omitempty"`

	// Ayurvedic attributes surfaced on product pages.
	Benefits    []string `json:"benefits,omitempty" bson:"benefits,omitempty"`
	Ingredients []string `json:"ingredients,omitempty" bson:"ingredients,omitempty"`
	Dosage      string   `json:"dosage,omitempty" bson:"dosage,omitempty"`

	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Category struct {
	CategoryID  string    `json:"categoryId" bson:"categoryid"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type Collection struct {
	CollectionID string    `json:"collectionId" bson:"collectionid"`
	Name         string    `json:"name" bson:"name"`
	Slug         string    `json:"slug" bson:"slug"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	ProductIDs   []string  `json:"productIds,omitempty" bson:"productIds,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
