package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/datingapp/internal/common"
	"github.com/dmitrijs2005/datingapp/internal/server/models"
)

func TestMemberList_ClampsPaging(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	svc := NewMemberService(db, rm)

	page, err := svc.List(context.Background(), -3, 500)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", page.Page)
	}
	if page.PageSize != maxPageSize {
		t.Fatalf("expected page size clamped to %d, got %d", maxPageSize, page.PageSize)
	}
}

func TestMemberGet_WithPhotos(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	svc := NewMemberService(db, rm)

	rm.u.users["alice"] = &models.User{ID: "u-alice", UserName: "alice", KnownAs: "Alice"}
	seedCollection(rm, "u-alice",
		&models.Photo{ID: 1, IsMain: true, URL: "http://host/a.jpg"},
	)

	m, err := svc.Get(context.Background(), "ALICE")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if m.User.UserName != "alice" {
		t.Fatalf("unexpected user: %+v", m.User)
	}
	if len(m.Photos) != 1 || !m.Photos[0].IsMain {
		t.Fatalf("unexpected photos: %+v", m.Photos)
	}
}

func TestMemberGet_NotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	svc := NewMemberService(db, rm)

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUpdateProfile_OverwritesEditableFields(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	svc := NewMemberService(db, rm)

	rm.u.users["alice"] = &models.User{ID: "u-alice", UserName: "alice"}

	err := svc.UpdateProfile(context.Background(), "u-alice", ProfileUpdate{
		KnownAs: "Ally", City: "Madrid", Country: "Spain",
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}

	u := rm.u.users["alice"]
	if u.KnownAs != "Ally" || u.City != "Madrid" || u.Country != "Spain" {
		t.Fatalf("profile not updated: %+v", u)
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	svc := NewMemberService(db, rm)

	err := svc.UpdateProfile(context.Background(), "u-ghost", ProfileUpdate{})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
