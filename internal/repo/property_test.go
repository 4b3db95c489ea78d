package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPropertyRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO properties \(address, price, size, description\)`).
		WithArgs("Calle 26 #13-19", 350000000.0, 82.5, "Two bedrooms").
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "price", "size", "description"}).
			AddRow(1, "Calle 26 #13-19", 350000000.0, 82.5, "Two bedrooms"))

	repo := NewPropertyRepo(db)
	p, err := repo.Create(context.Background(), "Calle 26 #13-19", 350000000.0, 82.5, "Two bedrooms")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != 1 || p.Address != "Calle 26 #13-19" || p.Price != 350000000.0 || p.Size != 82.5 {
		t.Errorf("unexpected property: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPropertyRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, address, price, size, description`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "price", "size", "description"}).
			AddRow(7, "Carrera 7 #45-10", 120000.0, 60.0, ""))

	repo := NewPropertyRepo(db)
	p, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.ID != 7 || p.Address != "Carrera 7 #45-10" {
		t.Errorf("unexpected property: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPropertyRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, address, price, size, description`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	repo := NewPropertyRepo(db)
	_, err = repo.GetByID(context.Background(), 999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPropertyRepo_UpdateByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE properties`).
		WithArgs("New address", 500000.0, 90.0, "Renovated", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "price", "size", "description"}).
			AddRow(3, "New address", 500000.0, 90.0, "Renovated"))

	repo := NewPropertyRepo(db)
	p, err := repo.UpdateByID(context.Background(), 3, "New address", 500000.0, 90.0, "Renovated")
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if p.ID != 3 || p.Address != "New address" || p.Description != "Renovated" {
		t.Errorf("unexpected property: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPropertyRepo_UpdateByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// RETURNING on a missing row yields no rows.
	mock.ExpectQuery(`UPDATE properties`).
		WithArgs("x", 1.0, 1.0, "x", 404).
		WillReturnError(sql.ErrNoRows)

	repo := NewPropertyRepo(db)
	_, err = repo.UpdateByID(context.Background(), 404, "x", 1.0, 1.0, "x")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPropertyRepo_DeleteByID_AbsentRowStillSucceeds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM properties`).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPropertyRepo(db)
	if err := repo.DeleteByID(context.Background(), 12); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPropertyRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, address, price, size, description FROM properties ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "price", "size", "description"}).
			AddRow(1, "a", 1.0, 1.0, "").
			AddRow(2, "b", 2.0, 2.0, ""))

	repo := NewPropertyRepo(db)
	props, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(props) != 2 || props[0].ID != 1 || props[1].Address != "b" {
		t.Errorf("unexpected properties: %+v", props)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
