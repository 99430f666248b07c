package post

import "errors"

var (
	// ErrPostNotFound is returned when no post matches the requested slug.
	// On public paths this covers drafts too: unpublished posts are
	// indistinguishable from missing ones.
	ErrPostNotFound = errors.New("post not found")

	// ErrSlugTaken is returned when creating or renaming a post to a slug
	// that is already in use.
	ErrSlugTaken = errors.New("slug already in use")

	// ErrSlugImmutable is returned when attempting to change the slug of a
	// published post. Published slugs are public URLs and must not move.
	ErrSlugImmutable = errors.New("slug of a published post cannot be changed")
)
