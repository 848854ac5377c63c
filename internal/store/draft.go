package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sunilvk/orderflow/internal/model"
)

// draftRowID is the well-known key of the singleton current-draft row.
const draftRowID = 1

// DraftStore owns the single mutable current draft and its line items.
//
// The store does not gate writes on draft status; that guard lives in the
// workflow controller, mirroring the original tool where the storage layer
// would append regardless. Multi-step operations (read items, then delete by
// position) are not wrapped in a transaction, so concurrent edits can still
// shift positions between a read and its write; accepted for a trusted
// low-concurrency team rather than patched with locking.
type DraftStore struct {
	db *sql.DB
}

func NewDraftStore(db *sql.DB) *DraftStore {
	return &DraftStore{db: db}
}

const itemCols = `id, name, quantity, category, added_by, added_at`

func scanLineItem(scanner interface{ Scan(...any) error }) (*model.LineItem, error) {
	var item model.LineItem
	err := scanner.Scan(&item.ID, &item.Name, &item.Quantity, &item.Category, &item.AddedBy, &item.AddedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Get returns the current draft with items in insertion order, creating the
// singleton row if a fresh database somehow lacks it.
func (s *DraftStore) Get() (*model.Draft, error) {
	var d model.Draft
	var approvedBy sql.NullString
	var approvedAt sql.NullTime

	err := s.db.QueryRow(
		`SELECT status, created_at, updated_at, approved_by, approved_at FROM drafts WHERE id = ?`,
		draftRowID,
	).Scan(&d.Status, &d.CreatedAt, &d.UpdatedAt, &approvedBy, &approvedAt)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec(`INSERT INTO drafts (id, status) VALUES (?, ?)`, draftRowID, model.StatusDraft); err != nil {
			return nil, fmt.Errorf("create draft row: %w", err)
		}
		return s.Get()
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	if approvedBy.Valid {
		d.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		d.ApprovedAt = &approvedAt.Time
	}

	items, err := s.items()
	if err != nil {
		return nil, err
	}
	d.Items = items
	return &d, nil
}

func (s *DraftStore) items() ([]model.LineItem, error) {
	rows, err := s.db.Query(`SELECT ` + itemCols + ` FROM draft_items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list draft items: %w", err)
	}
	defer rows.Close()

	var items []model.LineItem
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// AddItem appends a line item and bumps the draft's updated_at.
func (s *DraftStore) AddItem(name, quantity, category, addedBy string, addedAt time.Time) (*model.LineItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO draft_items (name, quantity, category, added_by, added_at) VALUES (?, ?, ?, ?, ?)`,
		name, quantity, category, addedBy, addedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert draft item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := s.touch(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`SELECT `+itemCols+` FROM draft_items WHERE id = ?`, id)
	return scanLineItem(row)
}

// RemoveItemAt deletes the item at the given position in the current ordered
// list. Returns nil when the index is out of bounds at call time.
func (s *DraftStore) RemoveItemAt(index int) (*model.LineItem, error) {
	items, err := s.items()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, nil
	}

	removed := items[index]
	if _, err := s.db.Exec(`DELETE FROM draft_items WHERE id = ?`, removed.ID); err != nil {
		return nil, fmt.Errorf("delete draft item: %w", err)
	}
	if err := s.touch(); err != nil {
		return nil, err
	}
	return &removed, nil
}

// UpdateMatching overwrites quantity and category on every item matching
// name + current category, and returns the number of items updated. Multiple
// matches all change together; callers rely on that.
func (s *DraftStore) UpdateMatching(name, oldCategory, quantity, newCategory string) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE draft_items SET quantity = ?, category = ? WHERE name = ? AND category = ?`,
		quantity, newCategory, name, oldCategory,
	)
	if err != nil {
		return 0, fmt.Errorf("update draft items: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if count > 0 {
		if err := s.touch(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// Approve stamps the draft Approved with the approver and time.
func (s *DraftStore) Approve(by string, at time.Time) error {
	_, err := s.db.Exec(
		`UPDATE drafts SET status = ?, approved_by = ?, approved_at = ?, updated_at = ? WHERE id = ?`,
		model.StatusApproved, by, at, at.UTC(), draftRowID,
	)
	if err != nil {
		return fmt.Errorf("approve draft: %w", err)
	}
	return nil
}

// Reset discards all items and restores a fresh empty Draft-status record.
// Used both for explicit clears and after archiving a sent draft.
func (s *DraftStore) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM draft_items`); err != nil {
		return fmt.Errorf("clear draft items: %w", err)
	}
	now := time.Now().UTC()
	if _, err := tx.Exec(
		`UPDATE drafts SET status = ?, created_at = ?, updated_at = ?, approved_by = NULL, approved_at = NULL WHERE id = ?`,
		model.StatusDraft, now, now, draftRowID,
	); err != nil {
		return fmt.Errorf("reset draft: %w", err)
	}
	return tx.Commit()
}

func (s *DraftStore) touch() error {
	_, err := s.db.Exec(`UPDATE drafts SET updated_at = ? WHERE id = ?`, time.Now().UTC(), draftRowID)
	if err != nil {
		return fmt.Errorf("touch draft: %w", err)
	}
	return nil
}
