package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/datingapp/internal/common"
	"github.com/dmitrijs2005/datingapp/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "password_hash", "password_salt", "known_as", "date_of_birth",
		"gender", "introduction", "looking_for", "interests", "city", "country",
		"created_at", "last_active_at",
	})
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password_hash,\s*password_salt,.*RETURNING\s+id,\s*created_at,\s*last_active_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "last_active_at"}).
		AddRow("u-42", now, now)
	mock.ExpectQuery(q).
		WithArgs("alice", []byte("hash"), []byte("salt"), "", sqlmock.AnyArg(), "", "", "").
		WillReturnRows(rows)

	u := &models.User{UserName: "alice", PasswordHash: []byte("hash"), PasswordSalt: []byte("salt")}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-42" || got.UserName != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+LOWER\(username\)\s*=\s*LOWER\(\$1\)\s*$`

	now := time.Now()
	rows := userRows().AddRow("u-1", "alice", []byte("hash"), []byte("salt"), "Alice", nil,
		"female", "", "", "", "Madrid", "Spain", now, now)
	mock.ExpectQuery(q).
		WithArgs("Alice").
		WillReturnRows(rows)

	got, err := repo.GetByUsername(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.ID != "u-1" || got.UserName != "alice" || got.City != "Madrid" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+LOWER\(username\)`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+LOWER\(username\)\s*=\s*LOWER\(\$1\)\)\s*$`

	mock.ExpectQuery(q).
		WithArgs("Alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !ok {
		t.Fatalf("expected exists=true")
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+known_as`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfile(context.Background(), &models.User{ID: "u-ghost"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+known_as`).
		WithArgs("Alice", "hi", "friends", "hiking", "Madrid", "Spain", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProfile(context.Background(), &models.User{
		ID: "u-1", KnownAs: "Alice", Introduction: "hi", LookingFor: "friends",
		Interests: "hiking", City: "Madrid", Country: "Spain",
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
}

func TestList_ReturnsPage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+users\s+ORDER\s+BY\s+last_active_at\s+DESC\s+OFFSET\s+\$1\s+LIMIT\s+\$2\s*$`

	now := time.Now()
	rows := userRows().
		AddRow("u-1", "alice", []byte{}, []byte{}, "", nil, "", "", "", "", "", "", now, now).
		AddRow("u-2", "bob", []byte{}, []byte{}, "", nil, "", "", "", "", "", "", now, now)
	mock.ExpectQuery(q).
		WithArgs(10, 5).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].UserName != "alice" || got[1].UserName != "bob" {
		t.Fatalf("unexpected page: %+v", got)
	}
}

func TestCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+count\(\*\)\s+FROM\s+users\s*$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7, got %d", n)
	}
}
