package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sunilvk/orderflow/internal/model"
)

// DefaultHistoryLimit caps order-history reads when the caller asks for none.
const DefaultHistoryLimit = 10

// OrderStore is the append-only archive of sent drafts. Orders are never
// mutated after creation.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Archive freezes the given draft into a new Sent order, copying every field
// and item. The caller resets the draft afterwards; the two writes are not
// atomic across stores, the same consistency gap the original tool carried.
func (s *OrderStore) Archive(d *model.Draft, sentBy string, sentAt time.Time) (*model.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin archive: %w", err)
	}
	defer tx.Rollback()

	var approvedBy, approvedAt any
	if d.ApprovedBy != nil {
		approvedBy = *d.ApprovedBy
	}
	if d.ApprovedAt != nil {
		approvedAt = *d.ApprovedAt
	}

	result, err := tx.Exec(
		`INSERT INTO orders (status, created_at, updated_at, approved_by, approved_at, sent_by, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		model.StatusSent, d.CreatedAt, d.UpdatedAt, approvedBy, approvedAt, sentBy, sentAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, item := range d.Items {
		if _, err := tx.Exec(
			`INSERT INTO order_items (order_id, name, quantity, category, added_by, added_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, item.Name, item.Quantity, item.Category, item.AddedBy, item.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit archive: %w", err)
	}
	return s.GetByID(orderID)
}

const orderCols = `id, status, created_at, updated_at, approved_by, approved_at, sent_by, sent_at`

func scanOrder(scanner interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	var approvedBy sql.NullString
	var approvedAt sql.NullTime

	err := scanner.Scan(&o.ID, &o.Status, &o.CreatedAt, &o.UpdatedAt, &approvedBy, &approvedAt, &o.SentBy, &o.SentAt)
	if err != nil {
		return nil, err
	}
	if approvedBy.Valid {
		o.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		o.ApprovedAt = &approvedAt.Time
	}
	return &o, nil
}

func (s *OrderStore) GetByID(id int64) (*model.Order, error) {
	row := s.db.QueryRow(`SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := s.itemsFor(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// ListRecent returns orders most-recent-first, capped at limit
// (DefaultHistoryLimit when limit <= 0).
func (s *OrderStore) ListRecent(limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.Query(`SELECT `+orderCols+` FROM orders ORDER BY sent_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.itemsFor(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *OrderStore) itemsFor(orderID int64) ([]model.LineItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM order_items WHERE order_id = ? ORDER BY id ASC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []model.LineItem
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
