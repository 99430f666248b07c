// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Post and ContactMessage, along with
// their validation rules and domain-specific errors.
package entity

import (
	"encoding/json"
	"time"
)

// Category is the closed set of editorial categories a post can belong to.
type Category string

const (
	CategoryTechnology  Category = "Technology"
	CategoryDesign      Category = "Design"
	CategoryDevelopment Category = "Development"
	CategoryBusiness    Category = "Business"
	CategoryTutorial    Category = "Tutorial"
	CategoryNews        Category = "News"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryDesign,
	CategoryDevelopment,
	CategoryBusiness,
	CategoryTutorial,
	CategoryNews,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Author describes the person credited for a post.
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

// Image is a hosted image with optional alt text.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Post represents a blog post in the system.
//
// The slug is the public identifier and must stay stable once the post has
// been published. PublishedAt is stamped exactly once, on the first
// transition to published, and is never overwritten afterwards. Views only
// ever increases, by way of the detail read path's atomic increment.
type Post struct {
	ID            int64
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	Author        Author
	FeaturedImage *Image
	Tags          []string
	Category      Category
	Published     bool
	Featured      bool
	ReadTime      int
	Views         int64
	SEO           json.RawMessage // opaque metadata block, passed through untouched
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
