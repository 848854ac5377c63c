package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sunilvk/orderflow/internal/catalog"
	"github.com/sunilvk/orderflow/internal/model"
)

var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrKeywordNotFound  = errors.New("keyword not found in source category")
)

// CategoryStore manages the ordered category/keyword table. There is no
// delete operation; categories only accumulate.
type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories in table order with their keywords in order.
func (s *CategoryStore) List() ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, position, created_at FROM categories ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Position, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range categories {
		keywords, err := s.keywords(categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].Keywords = keywords
	}
	return categories, nil
}

// Table loads the current classification table. Callers fetch a fresh table
// per categorization so keyword mutations are visible on the next call.
func (s *CategoryStore) Table() (catalog.Table, error) {
	categories, err := s.List()
	if err != nil {
		return nil, err
	}
	table := make(catalog.Table, 0, len(categories))
	for _, c := range categories {
		table = append(table, catalog.Category{Name: c.Name, Keywords: c.Keywords})
	}
	return table, nil
}

// AddCategory appends a new category with the given initial keywords.
// Returns ErrCategoryExists without any state change if the name is taken.
func (s *CategoryStore) AddCategory(name string, keywords []string) (*model.Category, error) {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if exists > 0 {
		return nil, ErrCategoryExists
	}

	var position int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(position), 0) + 1 FROM categories`).Scan(&position); err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	result, err := s.db.Exec(`INSERT INTO categories (name, position) VALUES (?, ?)`, name, position)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, kw := range keywords {
		kw = catalog.Normalize(kw)
		if kw == "" {
			continue
		}
		if err := s.appendKeyword(id, kw); err != nil {
			return nil, err
		}
	}
	return s.getByID(id)
}

// AddKeyword normalizes and appends a keyword to the named category. It is a
// no-op when the category is absent or the keyword is already in its list.
func (s *CategoryStore) AddKeyword(category, text string) error {
	kw := catalog.Normalize(text)
	if kw == "" {
		return nil
	}

	id, err := s.idByName(category)
	if err != nil {
		return err
	}
	if id == 0 {
		return nil
	}

	present, err := s.hasKeyword(id, kw)
	if err != nil {
		return err
	}
	if present {
		return nil
	}
	return s.appendKeyword(id, kw)
}

// MoveKeyword removes a keyword from one category's list and appends it to
// another's unless already present there. Repeating the move is idempotent.
func (s *CategoryStore) MoveKeyword(keyword, from, to string) error {
	kw := catalog.Normalize(keyword)

	fromID, err := s.idByName(from)
	if err != nil {
		return err
	}
	toID, err := s.idByName(to)
	if err != nil {
		return err
	}
	if fromID == 0 || toID == 0 {
		return ErrCategoryNotFound
	}

	result, err := s.db.Exec(
		`DELETE FROM category_keywords WHERE category_id = ? AND keyword = ?`,
		fromID, kw,
	)
	if err != nil {
		return fmt.Errorf("remove keyword: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	present, err := s.hasKeyword(toID, kw)
	if err != nil {
		return err
	}
	if present {
		// Destination already has it; the move already happened.
		return nil
	}
	if removed == 0 {
		return ErrKeywordNotFound
	}
	return s.appendKeyword(toID, kw)
}

func (s *CategoryStore) getByID(id int64) (*model.Category, error) {
	var c model.Category
	err := s.db.QueryRow(
		`SELECT id, name, position, created_at FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Position, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	keywords, err := s.keywords(c.ID)
	if err != nil {
		return nil, err
	}
	c.Keywords = keywords
	return &c, nil
}

func (s *CategoryStore) idByName(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("category id by name: %w", err)
	}
	return id, nil
}

func (s *CategoryStore) keywords(categoryID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT keyword FROM category_keywords WHERE category_id = ? ORDER BY position ASC, id ASC`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

func (s *CategoryStore) hasKeyword(categoryID int64, keyword string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM category_keywords WHERE category_id = ? AND keyword = ?`,
		categoryID, keyword,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check keyword: %w", err)
	}
	return count > 0, nil
}

func (s *CategoryStore) appendKeyword(categoryID int64, keyword string) error {
	_, err := s.db.Exec(
		`INSERT INTO category_keywords (category_id, keyword, position)
		 SELECT ?, ?, COALESCE(MAX(position), 0) + 1 FROM category_keywords WHERE category_id = ?`,
		categoryID, keyword, categoryID,
	)
	if err != nil {
		return fmt.Errorf("append keyword: %w", err)
	}
	return nil
}
