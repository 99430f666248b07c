package entity

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// Field length limits enforced on the write path.
const (
	maxTitleLength   = 200
	maxExcerptLength = 500
	maxSlugLength    = 200
	maxNameLength    = 100
	maxMessageLength = 5000
)

// slugPattern matches lowercase URL-safe slugs: alphanumeric runs separated
// by single hyphens, e.g. "building-modern-web-apps".
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateSlug checks that a slug is non-empty, lowercase and URL-safe.
// Slugs are public identifiers, so the shape is enforced strictly on write.
func ValidateSlug(slug string) error {
	if slug == "" {
		return &ValidationError{Field: "slug", Message: "is required"}
	}
	if len(slug) > maxSlugLength {
		return &ValidationError{
			Field:   "slug",
			Message: fmt.Sprintf("must not exceed %d characters", maxSlugLength),
		}
	}
	if !slugPattern.MatchString(slug) {
		return &ValidationError{
			Field:   "slug",
			Message: "must be lowercase alphanumeric with single hyphen separators",
		}
	}
	return nil
}

// Slugify derives a slug from free text: lowercased, non-alphanumeric runs
// collapsed to single hyphens, leading/trailing hyphens trimmed.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Validate checks the invariants a post must satisfy before it is persisted.
// It returns the first ValidationError encountered.
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if len(p.Title) > maxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must not exceed %d characters", maxTitleLength),
		}
	}
	if err := ValidateSlug(p.Slug); err != nil {
		return err
	}
	if strings.TrimSpace(p.Excerpt) == "" {
		return &ValidationError{Field: "excerpt", Message: "is required"}
	}
	if len(p.Excerpt) > maxExcerptLength {
		return &ValidationError{
			Field:   "excerpt",
			Message: fmt.Sprintf("must not exceed %d characters", maxExcerptLength),
		}
	}
	if strings.TrimSpace(p.Content) == "" {
		return &ValidationError{Field: "content", Message: "is required"}
	}
	if strings.TrimSpace(p.Author.Name) == "" {
		return &ValidationError{Field: "author.name", Message: "is required"}
	}
	if !p.Category.Valid() {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("must be one of %v", Categories),
		}
	}
	if p.ReadTime < 1 {
		return &ValidationError{Field: "readTime", Message: "must be positive"}
	}
	return nil
}

// NormalizeTags trims each tag, drops empties and case-insensitive
// duplicates, and returns the cleaned set.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Validate checks a contact submission before persistence. The budget enum
// is rejected on write (unlike listing filters, which ignore unknown values).
func (m *ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if len(m.Name) > maxNameLength {
		return &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("must not exceed %d characters", maxNameLength),
		}
	}
	if m.Email == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if m.Budget != "" && !m.Budget.Valid() {
		return &ValidationError{
			Field:   "budget",
			Message: fmt.Sprintf("must be one of %v", Budgets),
		}
	}
	if strings.TrimSpace(m.Message) == "" {
		return &ValidationError{Field: "message", Message: "is required"}
	}
	if len(m.Message) > maxMessageLength {
		return &ValidationError{
			Field:   "message",
			Message: fmt.Sprintf("must not exceed %d characters", maxMessageLength),
		}
	}
	return nil
}
