package store

import (
	"database/sql"
	"fmt"

	"github.com/sunilvk/orderflow/internal/model"
)

// DefaultVendorType is used when a vendor is added without a type.
const DefaultVendorType = "WhatsApp"

// VendorStore holds supplier contacts. Adding never fails on duplicates:
// several vendors may map to one category, and dispatch uses the first by id
// (oldest record wins) — deterministic here, but still "first match".
type VendorStore struct {
	db *sql.DB
}

func NewVendorStore(db *sql.DB) *VendorStore {
	return &VendorStore{db: db}
}

const vendorCols = `id, category, vendor_name, phone, vendor_type, created_at`

func scanVendor(scanner interface{ Scan(...any) error }) (*model.Vendor, error) {
	var v model.Vendor
	err := scanner.Scan(&v.ID, &v.Category, &v.VendorName, &v.Phone, &v.VendorType, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VendorStore) Create(category, vendorName, phone, vendorType string) (*model.Vendor, error) {
	if vendorType == "" {
		vendorType = DefaultVendorType
	}
	result, err := s.db.Exec(
		`INSERT INTO vendors (category, vendor_name, phone, vendor_type) VALUES (?, ?, ?, ?)`,
		category, vendorName, phone, vendorType,
	)
	if err != nil {
		return nil, fmt.Errorf("insert vendor: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *VendorStore) GetByID(id int64) (*model.Vendor, error) {
	row := s.db.QueryRow(`SELECT `+vendorCols+` FROM vendors WHERE id = ?`, id)
	v, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

func (s *VendorStore) List() ([]model.Vendor, error) {
	rows, err := s.db.Query(`SELECT ` + vendorCols + ` FROM vendors ORDER BY category ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, *v)
	}
	return vendors, rows.Err()
}

// GetByCategory resolves the vendor used for a category at dispatch time:
// the first record by id, or nil when none is mapped.
func (s *VendorStore) GetByCategory(category string) (*model.Vendor, error) {
	row := s.db.QueryRow(
		`SELECT `+vendorCols+` FROM vendors WHERE category = ? ORDER BY id ASC LIMIT 1`,
		category,
	)
	v, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor by category: %w", err)
	}
	return v, nil
}

func (s *VendorStore) Update(id int64, category, vendorName, phone, vendorType string) (*model.Vendor, error) {
	if vendorType == "" {
		vendorType = DefaultVendorType
	}
	_, err := s.db.Exec(
		`UPDATE vendors SET category = ?, vendor_name = ?, phone = ?, vendor_type = ? WHERE id = ?`,
		category, vendorName, phone, vendorType, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	return s.GetByID(id)
}

func (s *VendorStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM vendors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	return nil
}
