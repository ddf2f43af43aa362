package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/datingapp/internal/common"
)

func countMain(c PhotoCollection) int {
	n := 0
	for _, p := range c {
		if p.IsMain {
			n++
		}
	}
	return n
}

func TestAdd_FirstPhotoBecomesMain(t *testing.T) {
	var c PhotoCollection

	first := &Photo{ID: 1}
	c.Add(first)
	if !first.IsMain {
		t.Fatalf("first photo should be main")
	}

	second := &Photo{ID: 2}
	c.Add(second)
	if second.IsMain {
		t.Fatalf("second photo must not be main")
	}
	if countMain(c) != 1 {
		t.Fatalf("expected exactly one main photo, got %d", countMain(c))
	}
}

func TestPromote_SwapsMainFlagAtomically(t *testing.T) {
	c := PhotoCollection{
		{ID: 1, IsMain: true},
		{ID: 2},
	}

	if err := c.Promote(2); err != nil {
		t.Fatalf("Promote error: %v", err)
	}
	if c.Find(1).IsMain || !c.Find(2).IsMain {
		t.Fatalf("expected main flag to move from 1 to 2: %+v %+v", c[0], c[1])
	}
	if countMain(c) != 1 {
		t.Fatalf("expected exactly one main photo, got %d", countMain(c))
	}
}

func TestPromote_AlreadyMainLeavesCollectionUntouched(t *testing.T) {
	c := PhotoCollection{
		{ID: 1, IsMain: true},
		{ID: 2},
	}

	err := c.Promote(1)
	if !errors.Is(err, common.ErrAlreadyMain) {
		t.Fatalf("expected ErrAlreadyMain, got %v", err)
	}
	if !c.Find(1).IsMain || c.Find(2).IsMain {
		t.Fatalf("collection changed by a no-op promotion")
	}
}

func TestPromote_UnknownID(t *testing.T) {
	c := PhotoCollection{{ID: 1, IsMain: true}}
	if err := c.Promote(99); !errors.Is(err, common.ErrPhotoNotFound) {
		t.Fatalf("expected ErrPhotoNotFound, got %v", err)
	}
}

func TestRemove_RefusesMainPhoto(t *testing.T) {
	c := PhotoCollection{
		{ID: 1, IsMain: true},
		{ID: 2},
	}

	err := c.Remove(1)
	if !errors.Is(err, common.ErrCannotDeleteMainPhoto) {
		t.Fatalf("expected ErrCannotDeleteMainPhoto, got %v", err)
	}
	if len(c) != 2 {
		t.Fatalf("collection changed by a refused deletion")
	}
}

func TestRemove_DeletesNonMain(t *testing.T) {
	c := PhotoCollection{
		{ID: 1, IsMain: true},
		{ID: 2},
	}

	if err := c.Remove(2); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if len(c) != 1 || c.Find(2) != nil {
		t.Fatalf("photo 2 should be gone, got %d photos", len(c))
	}
}

func TestRemove_UnknownID(t *testing.T) {
	c := PhotoCollection{{ID: 1, IsMain: true}}
	if err := c.Remove(99); !errors.Is(err, common.ErrPhotoNotFound) {
		t.Fatalf("expected ErrPhotoNotFound, got %v", err)
	}
}

// Drive a longer mixed sequence and check the invariant after every step.
func TestCollection_NeverMoreThanOneMain(t *testing.T) {
	var c PhotoCollection
	nextID := int64(1)

	add := func() {
		p := &Photo{ID: nextID}
		nextID++
		c.Add(p)
	}

	steps := []func(){
		add,
		add,
		func() { _ = c.Promote(2) },
		add,
		func() { _ = c.Promote(3) },
		func() { _ = c.Remove(1) },
		func() { _ = c.Promote(2) },
		func() { _ = c.Remove(3) },
		add,
		func() { _ = c.Promote(4) },
	}

	for i, step := range steps {
		step()
		if got := countMain(c); len(c) > 0 && got != 1 {
			t.Fatalf("after step %d: %d main photos in %d-photo collection", i, got, len(c))
		}
	}
}
