package models

import (
	"time"

	"github.com/dmitrijs2005/datingapp/internal/common"
)

// Photo is one image in a user's collection. URL points at the remote image
// host; StorageKey is the host's identifier used for remote deletion and may
// be empty for legacy rows.
type Photo struct {
	ID         int64
	UserID     string
	URL        string
	StorageKey string
	IsMain     bool
	CreatedAt  time.Time
}

// PhotoCollection is one user's full photo set, always loaded and saved as a
// unit. Its methods maintain the invariant that at most one photo has
// IsMain set; every mutation leaves the collection in a state that is safe
// to persist, so no intermediate zero-main or two-main state ever reaches
// storage.
type PhotoCollection []*Photo

// Find returns the photo with the given id, or nil.
func (c PhotoCollection) Find(id int64) *Photo {
	for _, p := range c {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Main returns the current main photo, or nil. If the invariant was broken
// upstream and several photos claim to be main, the first one wins.
func (c PhotoCollection) Main() *Photo {
	for _, p := range c {
		if p.IsMain {
			return p
		}
	}
	return nil
}

// Add appends p to the collection. The first photo added to an empty
// collection becomes the main photo automatically.
func (c *PhotoCollection) Add(p *Photo) {
	p.IsMain = len(*c) == 0
	*c = append(*c, p)
}

// Promote makes the photo with the given id the main photo, demoting the
// current main first so both flags flip before anything is persisted.
// Returns ErrPhotoNotFound for an unknown id and ErrAlreadyMain when the
// target already is the main photo (the collection is left untouched).
func (c PhotoCollection) Promote(id int64) error {
	target := c.Find(id)
	if target == nil {
		return common.ErrPhotoNotFound
	}
	if target.IsMain {
		return common.ErrAlreadyMain
	}
	if current := c.Main(); current != nil {
		current.IsMain = false
	}
	target.IsMain = true
	return nil
}

// Remove deletes the photo with the given id. The main photo cannot be
// removed; another photo has to be promoted first.
func (c *PhotoCollection) Remove(id int64) error {
	for i, p := range *c {
		if p.ID != id {
			continue
		}
		if p.IsMain {
			return common.ErrCannotDeleteMainPhoto
		}
		*c = append((*c)[:i], (*c)[i+1:]...)
		return nil
	}
	return common.ErrPhotoNotFound
}
