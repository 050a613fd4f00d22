package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
		WithArgs("admin", "hash").
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := repo.Create("admin", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 3 {
		t.Fatalf("id = %d, want 3", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestUserRepository_Upsert(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(upsertUserSQL)).
		WithArgs("admin", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert("admin", "newhash"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash"}).
		AddRow(1, "admin", "hash")
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("admin").
		WillReturnRows(rows)

	u, err := repo.GetByUsername("admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u == nil || u.ID != 1 || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", u)
	}

	// Absent user: (nil, nil), not an error.
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	u, err = repo.GetByUsername("ghost")
	if err != nil || u != nil {
		t.Fatalf("absent user: u=%+v err=%v", u, err)
	}

	// Real DB errors propagate wrapped.
	dbErr := errors.New("db is on fire")
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("admin").
		WillReturnError(dbErr)

	if _, err = repo.GetByUsername("admin"); !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
