package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type AssetRepo struct {
	DB *sql.DB
}

func NewAssetRepo(db *sql.DB) *AssetRepo {
	return &AssetRepo{DB: db}
}

const assetColumns = `id, name, tag, description, next_maintenance, warranty_expiry, license_expiry, assigned_to, created_at`

func scanAsset(row interface{ Scan(...interface{}) error }, a *models.Asset) error {
	return row.Scan(
		&a.ID,
		&a.Name,
		&a.Tag,
		&a.Description,
		&a.NextMaintenance,
		&a.WarrantyExpiry,
		&a.LicenseExpiry,
		&a.AssignedTo,
		&a.CreatedAt,
	)
}

// ========================
// CREATE ASSET
// ========================

type AssetInput struct {
	Name            string
	Tag             string
	Description     string
	NextMaintenance *time.Time
	WarrantyExpiry  *time.Time
	LicenseExpiry   *time.Time
	AssignedTo      *int
}

func (r *AssetRepo) Create(ctx context.Context, in AssetInput) (*models.Asset, error) {
	a := &models.Asset{}
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO assets (name, tag, description, next_maintenance, warranty_expiry, license_expiry, assigned_to)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+assetColumns,
		in.Name, in.Tag, in.Description, in.NextMaintenance, in.WarrantyExpiry, in.LicenseExpiry, in.AssignedTo,
	)
	if err := scanAsset(row, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ========================
// GET ASSET BY ID
// ========================

func (r *AssetRepo) GetByID(ctx context.Context, id int) (*models.Asset, error) {
	a := &models.Asset{}
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	err := scanAsset(row, a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ========================
// UPDATE ASSET BY ID
// ========================

func (r *AssetRepo) UpdateByID(ctx context.Context, id int, in AssetInput) (*models.Asset, error) {
	a := &models.Asset{}
	row := r.DB.QueryRowContext(ctx,
		`UPDATE assets
		 SET name = $1, tag = $2, description = $3, next_maintenance = $4, warranty_expiry = $5, license_expiry = $6, assigned_to = $7
		 WHERE id = $8
		 RETURNING `+assetColumns,
		in.Name, in.Tag, in.Description, in.NextMaintenance, in.WarrantyExpiry, in.LicenseExpiry, in.AssignedTo, id,
	)
	if err := scanAsset(row, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ========================
// DELETE ASSET BY ID
// ========================

func (r *AssetRepo) DeleteByID(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM assets WHERE id = $1", id)
	return err
}

// ========================
// LIST ASSETS WITH PAGINATION
// ========================

func (r *AssetRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := scanAsset(rows, &a); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// ========================
// SEARCH ASSETS WITH PAGINATION
// ========================

func (r *AssetRepo) SearchPaginated(ctx context.Context, query string, limit, offset int) ([]models.Asset, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT `+assetColumns+`
        FROM assets
        WHERE name ILIKE $1 OR tag ILIKE $1 OR description ILIKE $1
        ORDER BY id
        LIMIT $2 OFFSET $3
    `, "%"+query+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := scanAsset(rows, &a); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// ========================
// FIND BY DATE RANGE (notifier)
// ========================

// dateField whitelists the three tracked date columns so the field name can
// be interpolated into the query safely.
var dateField = map[string]bool{
	models.FieldNextMaintenance: true,
	models.FieldWarrantyExpiry:  true,
	models.FieldLicenseExpiry:   true,
}

// FindByDateRange returns assets whose tracked date field falls inside
// [start, end] (closed interval), with the assigned user resolved when present.
// Assets with a NULL field are never selected: absence means "not tracked".
func (r *AssetRepo) FindByDateRange(ctx context.Context, field string, start, end time.Time) ([]models.Asset, error) {
	if !dateField[field] {
		return nil, fmt.Errorf("unknown date field %q", field)
	}

	query := `
		SELECT a.id, a.name, a.tag, a.description, a.next_maintenance, a.warranty_expiry, a.license_expiry, a.assigned_to, a.created_at,
		       u.id, u.username, u.email, u.role
		FROM assets a
		LEFT JOIN users u ON u.id = a.assigned_to
		WHERE a.` + field + ` >= $1 AND a.` + field + ` <= $2
		ORDER BY a.` + field
	rows, err := r.DB.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		var uid sql.NullInt64
		var username, email, role sql.NullString
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Tag, &a.Description,
			&a.NextMaintenance, &a.WarrantyExpiry, &a.LicenseExpiry,
			&a.AssignedTo, &a.CreatedAt,
			&uid, &username, &email, &role,
		); err != nil {
			return nil, err
		}
		if uid.Valid {
			a.AssignedUser = &models.User{
				ID:       int(uid.Int64),
				Username: username.String,
				Email:    email.String,
				Role:     role.String,
			}
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// ========================
// COUNT
// ========================

func (r *AssetRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets").Scan(&n)
	return n, err
}
