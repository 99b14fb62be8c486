package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/smart-health-monitoring/internal/model"
)

var insertPattern = regexp.QuoteMeta("INSERT INTO health_data")

func sampleReadings(n int) []model.Reading {
	ts := time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
	out := make([]model.Reading, n)
	for i := range out {
		out[i] = model.Reading{
			ID:            i + 1,
			HeartRate:     60 + i%40,
			BloodPressure: "120/80",
			OxygenLevel:   90 + i%10,
			Timestamp:     ts.Add(time.Duration(i) * time.Millisecond),
		}
	}
	return out
}

func newMockRepo(t *testing.T) (*HealthDataRepo, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewHealthDataRepo(db), db, mock
}

func TestHealthDataRepo_SaveInsertsEveryReading(t *testing.T) {
	repo, db, mock := newMockRepo(t)
	readings := sampleReadings(100)

	for _, r := range readings {
		// temperature is bound to the oxygen level
		mock.ExpectExec(insertPattern).
			WithArgs(r.ID, r.HeartRate, r.BloodPressure, r.OxygenLevel, r.Timestamp).
			WillReturnResult(sqlmock.NewResult(int64(r.ID), 1))
	}

	if err := repo.Save(context.Background(), readings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
	if inUse := db.Stats().InUse; inUse != 0 {
		t.Errorf("expected connection to be released, %d still in use", inUse)
	}
}

func TestHealthDataRepo_SaveAbortsOnFirstFailure(t *testing.T) {
	repo, db, mock := newMockRepo(t)
	readings := sampleReadings(100)
	boom := errors.New("Error 1054: Unknown column 'temperature'")

	mock.ExpectExec(insertPattern).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertPattern).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(insertPattern).WillReturnError(boom)

	err := repo.Save(context.Background(), readings)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
	// Any insert after the third would have been an unexpected call.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
	if inUse := db.Stats().InUse; inUse != 0 {
		t.Errorf("expected connection to be released after failure, %d still in use", inUse)
	}
}

func TestHealthDataRepo_SaveEmptyBatch(t *testing.T) {
	repo, _, mock := newMockRepo(t)

	if err := repo.Save(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHealthDataRepo_SaveUnreachableDatabase(t *testing.T) {
	// Nothing listens on port 1, so acquiring a connection fails.
	db, err := sql.Open("mysql", "root@tcp(127.0.0.1:1)/healthdb?timeout=500ms")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	err = NewHealthDataRepo(db).Save(context.Background(), sampleReadings(3))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
