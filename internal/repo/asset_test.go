package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAssetRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	maint := now.AddDate(0, 3, 0)
	mock.ExpectQuery(`INSERT INTO assets \(name, tag, description, next_maintenance, warranty_expiry, license_expiry, assigned_to\)`).
		WithArgs("printer", "PRN-1", "office printer", maint, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "tag", "description", "next_maintenance", "warranty_expiry", "license_expiry", "assigned_to", "created_at",
		}).AddRow(42, "printer", "PRN-1", "office printer", maint, nil, nil, nil, now))

	repo := NewAssetRepo(db)
	asset, err := repo.Create(context.Background(), AssetInput{
		Name: "printer", Tag: "PRN-1", Description: "office printer", NextMaintenance: &maint,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if asset.ID != 42 || asset.Name != "printer" || asset.NextMaintenance == nil {
		t.Errorf("unexpected asset: %+v", asset)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, tag, description, next_maintenance, warranty_expiry, license_expiry, assigned_to, created_at FROM assets WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "tag", "description", "next_maintenance", "warranty_expiry", "license_expiry", "assigned_to", "created_at",
		}))

	repo := NewAssetRepo(db)
	asset, err := repo.GetByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if asset != nil {
		t.Errorf("expected nil for a missing asset, got %+v", asset)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_FindByDateRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	start := time.Date(2026, time.April, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)
	due := start.Add(10 * 24 * time.Hour)
	created := start.AddDate(-1, 0, 0)

	cols := []string{
		"id", "name", "tag", "description", "next_maintenance", "warranty_expiry", "license_expiry", "assigned_to", "created_at",
		"u_id", "u_username", "u_email", "u_role",
	}
	mock.ExpectQuery(`SELECT a\.id, a\.name, .* FROM assets a\s+LEFT JOIN users u ON u\.id = a\.assigned_to\s+WHERE a\.next_maintenance >= \$1 AND a\.next_maintenance <= \$2`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "printer", "PRN-1", "", due, nil, nil, 5, created, 5, "tech", "tech@example.com", "technician").
			AddRow(2, "router", "NET-1", "", due, nil, nil, nil, created, nil, nil, nil, nil))

	repo := NewAssetRepo(db)
	assets, err := repo.FindByDateRange(context.Background(), "next_maintenance", start, end)
	if err != nil {
		t.Fatalf("FindByDateRange: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	if assets[0].AssignedUser == nil || assets[0].AssignedUser.Email != "tech@example.com" {
		t.Errorf("expected assigned user resolved on first asset: %+v", assets[0].AssignedUser)
	}
	if assets[1].AssignedUser != nil {
		t.Errorf("expected no assigned user on second asset")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_FindByDateRange_RejectsUnknownField(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewAssetRepo(db)
	_, err = repo.FindByDateRange(context.Background(), "created_at; DROP TABLE assets", time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected an error for a non-whitelisted field")
	}
}

func TestAssetRepo_SearchPaginated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE name ILIKE \$1 OR tag ILIKE \$1 OR description ILIKE \$1`).
		WithArgs("%print%", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "tag", "description", "next_maintenance", "warranty_expiry", "license_expiry", "assigned_to", "created_at",
		}).AddRow(1, "printer", "PRN-1", "", nil, nil, nil, nil, time.Now()))

	repo := NewAssetRepo(db)
	assets, err := repo.SearchPaginated(context.Background(), "print", 20, 0)
	if err != nil {
		t.Fatalf("SearchPaginated: %v", err)
	}
	if len(assets) != 1 || assets[0].Name != "printer" {
		t.Errorf("unexpected result: %+v", assets)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
