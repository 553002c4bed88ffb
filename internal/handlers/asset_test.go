package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ramish-fuh/Inventory-sub000/internal/repo"
)

func assetRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "tag", "description", "next_maintenance", "warranty_expiry", "license_expiry", "assigned_to", "created_at",
	})
}

func TestAssetHandler_ListAssets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM assets ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(assetRows().
			AddRow(1, "printer", "PRN-1", "office printer", nil, nil, nil, nil, time.Now()))

	h := &AssetHandler{Repo: repo.NewAssetRepo(db)}

	req := httptest.NewRequest("GET", "/assets?limit=10&offset=0", nil)
	rr := httptest.NewRecorder()
	h.ListAssets(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var list []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Tag  string `json:"tag"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].Name != "printer" || list[0].Tag != "PRN-1" {
		t.Errorf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetHandler_ListAssets_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE name ILIKE \$1 OR tag ILIKE \$1 OR description ILIKE \$1`).
		WithArgs("%router%", 20, 0).
		WillReturnRows(assetRows())

	h := &AssetHandler{Repo: repo.NewAssetRepo(db)}

	req := httptest.NewRequest("GET", "/assets?search=router", nil)
	rr := httptest.NewRecorder()
	h.ListAssets(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetHandler_CreateAsset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	maint := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO assets`).
		WithArgs("printer", "PRN-1", "", sqlmock.AnyArg(), nil, nil, nil).
		WillReturnRows(assetRows().
			AddRow(1, "printer", "PRN-1", "", maint, nil, nil, nil, time.Now()))

	h := &AssetHandler{Repo: repo.NewAssetRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{
		"name":             "printer",
		"tag":              "PRN-1",
		"next_maintenance": maint.Format(time.RFC3339),
	})
	req := httptest.NewRequest("POST", "/assets", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateAsset(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body: %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetHandler_CreateAsset_ValidationFailure(t *testing.T) {
	h := &AssetHandler{}

	body, _ := json.Marshal(map[string]interface{}{"name": "x"}) // too short
	req := httptest.NewRequest("POST", "/assets", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateAsset(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestAssetHandler_GetAsset_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM assets WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(assetRows())

	h := &AssetHandler{Repo: repo.NewAssetRepo(db)}

	req := requestWithChiURLParams("GET", "/assets/99", nil, map[string]string{"id": "99"})
	rr := httptest.NewRecorder()
	h.GetAsset(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestAssetHandler_DeleteAsset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &AssetHandler{Repo: repo.NewAssetRepo(db)}

	req := requestWithChiURLParams("DELETE", "/assets/7", nil, map[string]string{"id": "7"})
	rr := httptest.NewRecorder()
	h.DeleteAsset(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
