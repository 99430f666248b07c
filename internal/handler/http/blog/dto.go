// Package blog provides the HTTP handlers for the blog content surface:
// public listing, detail, featured, recent, categories, search and the RSS
// feed, plus the JWT-protected editorial write endpoints.
package blog

import (
	"encoding/json"
	"time"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/repository"
)

// DTO is the JSON shape of a blog post. Field names are camelCase per the
// contract the SPA consumes. Content is omitted on listing responses and
// present on detail responses.
type DTO struct {
	ID            int64           `json:"id" example:"1"`
	Title         string          `json:"title" example:"Shipping Go services without downtime"`
	Slug          string          `json:"slug" example:"shipping-go-services-without-downtime"`
	Excerpt       string          `json:"excerpt" example:"What we learned running zero-downtime deploys."`
	Content       string          `json:"content,omitempty"`
	Author        entity.Author   `json:"author"`
	FeaturedImage *entity.Image   `json:"featuredImage,omitempty"`
	Tags          []string        `json:"tags"`
	Category      string          `json:"category" example:"Development"`
	Published     bool            `json:"published"`
	Featured      bool            `json:"featured"`
	ReadTime      int             `json:"readTime" example:"5"`
	Views         int64           `json:"views" example:"1320"`
	SEO           json.RawMessage `json:"seo,omitempty" swaggertype:"object"`
	PublishedAt   *time.Time      `json:"publishedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// fromEntity maps a post onto the wire shape. Tags always serialize as an
// array, never null.
func fromEntity(p *entity.Post, includeContent bool) DTO {
	dto := DTO{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Author:        p.Author,
		FeaturedImage: p.FeaturedImage,
		Tags:          p.Tags,
		Category:      string(p.Category),
		Published:     p.Published,
		Featured:      p.Featured,
		ReadTime:      p.ReadTime,
		Views:         p.Views,
		SEO:           p.SEO,
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if includeContent {
		dto.Content = p.Content
	}
	return dto
}

func fromEntities(posts []*entity.Post) []DTO {
	dtos := make([]DTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, fromEntity(p, false))
	}
	return dtos
}

// RecentDTO is the trimmed shape used by the recent-posts widget. The SPA
// sidebar only renders these fields, so the rest stay off the wire.
type RecentDTO struct {
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Excerpt       string        `json:"excerpt"`
	FeaturedImage *entity.Image `json:"featuredImage,omitempty"`
	PublishedAt   *time.Time    `json:"publishedAt,omitempty"`
	ReadTime      int           `json:"readTime"`
}

func fromEntitiesRecent(posts []*entity.Post) []RecentDTO {
	dtos := make([]RecentDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, RecentDTO{
			Title:         p.Title,
			Slug:          p.Slug,
			Excerpt:       p.Excerpt,
			FeaturedImage: p.FeaturedImage,
			PublishedAt:   p.PublishedAt,
			ReadTime:      p.ReadTime,
		})
	}
	return dtos
}

// CategoryDTO is one category facet entry.
type CategoryDTO struct {
	Name  string `json:"name" example:"Development"`
	Count int64  `json:"count" example:"12"`
}

func fromCategoryCounts(counts []repository.CategoryCount) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(counts))
	for _, c := range counts {
		dtos = append(dtos, CategoryDTO{Name: c.Name, Count: c.Count})
	}
	return dtos
}

// SearchHitDTO is a post with its relevance score.
type SearchHitDTO struct {
	DTO
	Score float64 `json:"score" example:"0.42"`
}

func fromRankedPosts(hits []repository.RankedPost) []SearchHitDTO {
	dtos := make([]SearchHitDTO, 0, len(hits))
	for _, hit := range hits {
		dtos = append(dtos, SearchHitDTO{DTO: fromEntity(hit.Post, false), Score: hit.Score})
	}
	return dtos
}
