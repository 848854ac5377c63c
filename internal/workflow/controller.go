// Package workflow orchestrates the draft lifecycle: Draft → Approved → Sent.
//
// Role gates live here, at the controller boundary, independent of the HTTP
// layer. The stores underneath do not enforce status preconditions and will
// write regardless; the controller is the single place that guards them.
//
// Operations that read then write (dispatch preview followed by mark-sent,
// edits based on an earlier fetch) are not serialized against concurrent
// sessions. That is an accepted limitation of this trusted low-concurrency
// tool, not something patched over with locking.
package workflow

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sunilvk/orderflow/internal/auth"
	"github.com/sunilvk/orderflow/internal/catalog"
	"github.com/sunilvk/orderflow/internal/model"
	"github.com/sunilvk/orderflow/internal/store"
	"github.com/sunilvk/orderflow/internal/whatsapp"
)

var (
	ErrForbidden        = errors.New("only owners can perform this action")
	ErrEmptyDraft       = errors.New("cannot approve empty draft")
	ErrDraftNotEditable = errors.New("draft is not in Draft status")
	ErrNotApproved      = errors.New("draft must be approved first")
	ErrItemNotFound     = errors.New("item not found")
	ErrEmptyName        = errors.New("item name is required")
	ErrUnknownCategory  = errors.New("unknown category")
)

// Controller wires the stores together and enforces status and role gates.
type Controller struct {
	drafts      *store.DraftStore
	orders      *store.OrderStore
	vendors     *store.VendorStore
	categories  *store.CategoryStore
	countryCode string
	logger      *slog.Logger
}

func NewController(drafts *store.DraftStore, orders *store.OrderStore, vendors *store.VendorStore, categories *store.CategoryStore, countryCode string, logger *slog.Logger) *Controller {
	return &Controller{
		drafts:      drafts,
		orders:      orders,
		vendors:     vendors,
		categories:  categories,
		countryCode: countryCode,
		logger:      logger,
	}
}

// Draft returns the current draft.
func (c *Controller) Draft() (*model.Draft, error) {
	return c.drafts.Get()
}

// AddItem categorizes and appends a line item. Any role may add; the draft
// must be in Draft status. The category is resolved against the table as it
// stands right now and frozen into the item.
func (c *Controller) AddItem(actor auth.Actor, name, quantity string) (*model.LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	draft, err := c.drafts.Get()
	if err != nil {
		return nil, err
	}
	if draft.Status != model.StatusDraft {
		return nil, ErrDraftNotEditable
	}

	table, err := c.categories.Table()
	if err != nil {
		return nil, err
	}
	category := table.Categorize(name)

	item, err := c.drafts.AddItem(name, strings.TrimSpace(quantity), category, actor.Name, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	c.logger.Info("item added", "name", item.Name, "category", item.Category, "by", actor.Name)
	return item, nil
}

// RemoveItem deletes the item at the given position in the current list.
// Bounds are checked against the list at call time, so a concurrent removal
// can shift which item a stale index refers to.
func (c *Controller) RemoveItem(actor auth.Actor, index int) (*model.LineItem, error) {
	draft, err := c.drafts.Get()
	if err != nil {
		return nil, err
	}
	if draft.Status != model.StatusDraft {
		return nil, ErrDraftNotEditable
	}

	removed, err := c.drafts.RemoveItemAt(index)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, ErrItemNotFound
	}
	return removed, nil
}

// EditItem overwrites quantity and category on every item matching
// name + oldCategory. Owner only. All matching items change together. A
// reassigned category must exist in the table (or be the Uncategorized
// sentinel); items never point at categories the dispatch step cannot see.
func (c *Controller) EditItem(actor auth.Actor, name, oldCategory, quantity, newCategory string) (int64, error) {
	if !actor.IsOwner() {
		return 0, ErrForbidden
	}

	draft, err := c.drafts.Get()
	if err != nil {
		return 0, err
	}
	if draft.Status != model.StatusDraft {
		return 0, ErrDraftNotEditable
	}

	if newCategory == "" {
		newCategory = oldCategory
	} else if newCategory != catalog.Uncategorized {
		table, err := c.categories.Table()
		if err != nil {
			return 0, err
		}
		if !table.Has(newCategory) {
			return 0, ErrUnknownCategory
		}
	}
	count, err := c.drafts.UpdateMatching(name, oldCategory, strings.TrimSpace(quantity), newCategory)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrItemNotFound
	}
	return count, nil
}

// Approve moves the draft to Approved. Owner only; the draft must be in
// Draft status and non-empty.
func (c *Controller) Approve(actor auth.Actor) (*model.Draft, error) {
	if !actor.IsOwner() {
		return nil, ErrForbidden
	}

	draft, err := c.drafts.Get()
	if err != nil {
		return nil, err
	}
	if draft.Status != model.StatusDraft {
		return nil, ErrDraftNotEditable
	}
	if len(draft.Items) == 0 {
		return nil, ErrEmptyDraft
	}

	if err := c.drafts.Approve(actor.Name, time.Now().UTC()); err != nil {
		return nil, err
	}
	c.logger.Info("draft approved", "by", actor.Name, "items", len(draft.Items))
	return c.drafts.Get()
}

// Dispatch is one per-category order ready to hand to a messaging client.
// Vendor is nil when no vendor is mapped to the category; such categories are
// reported, not fatal, and their items will still be archived on mark-sent.
type Dispatch struct {
	Category string           `json:"category"`
	Items    []model.LineItem `json:"items"`
	Vendor   *model.Vendor    `json:"vendor,omitempty"`
	Message  string           `json:"message,omitempty"`
	Link     string           `json:"link,omitempty"`
}

// SendPlan is the dispatch preview for an approved draft.
type SendPlan struct {
	Dispatches []Dispatch `json:"dispatches"`
	Unresolved []string   `json:"unresolved"`
}

// Dispatches groups the approved draft's categorized items by category in
// first-seen order and resolves a vendor, message, and wa.me link for each.
// Owner only; the draft must be Approved. Uncategorized items are excluded.
func (c *Controller) Dispatches(actor auth.Actor) (*SendPlan, error) {
	if !actor.IsOwner() {
		return nil, ErrForbidden
	}

	draft, err := c.drafts.Get()
	if err != nil {
		return nil, err
	}
	if draft.Status != model.StatusApproved {
		return nil, ErrNotApproved
	}

	grouped := groupByCategory(draft.Items)

	plan := &SendPlan{Unresolved: []string{}}
	for _, g := range grouped {
		vendor, err := c.vendors.GetByCategory(g.category)
		if err != nil {
			return nil, err
		}
		d := Dispatch{Category: g.category, Items: g.items}
		if vendor == nil {
			c.logger.Warn("no vendor mapped for category", "category", g.category)
			plan.Unresolved = append(plan.Unresolved, g.category)
		} else {
			d.Vendor = vendor
			d.Message = whatsapp.ComposeMessage(vendor.VendorName, g.items)
			d.Link = whatsapp.Link(vendor.Phone, d.Message, c.countryCode)
		}
		plan.Dispatches = append(plan.Dispatches, d)
	}
	return plan, nil
}

// MarkSent archives the ENTIRE current draft into a new Sent order and resets
// the draft to a fresh empty record. This happens regardless of how many
// categories actually had a vendor: items for unmapped categories leave the
// working set and survive only inside the archived order, exactly as the
// original tool behaved. Owner only; the draft must be Approved.
//
// The archive insert and the draft reset are two separate writes; a crash
// between them can leave both the order and the old draft present. Known
// consistency gap, carried over from the source design.
func (c *Controller) MarkSent(actor auth.Actor) (*model.Order, error) {
	if !actor.IsOwner() {
		return nil, ErrForbidden
	}

	draft, err := c.drafts.Get()
	if err != nil {
		return nil, err
	}
	if draft.Status != model.StatusApproved {
		return nil, ErrNotApproved
	}

	order, err := c.orders.Archive(draft, actor.Name, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := c.drafts.Reset(); err != nil {
		return nil, err
	}
	c.logger.Info("draft sent and archived", "order_id", order.ID, "by", actor.Name, "items", len(order.Items))
	return order, nil
}

// Clear discards all items without archiving. Valid while status is Draft.
func (c *Controller) Clear(actor auth.Actor) error {
	draft, err := c.drafts.Get()
	if err != nil {
		return err
	}
	if draft.Status != model.StatusDraft {
		return ErrDraftNotEditable
	}
	if err := c.drafts.Reset(); err != nil {
		return err
	}
	c.logger.Info("draft cleared", "by", actor.Name)
	return nil
}

// History returns archived orders most-recent-first. Owner only.
func (c *Controller) History(actor auth.Actor, limit int) ([]model.Order, error) {
	if !actor.IsOwner() {
		return nil, ErrForbidden
	}
	return c.orders.ListRecent(limit)
}

// Summary holds the dashboard counts.
type Summary struct {
	Status     model.DraftStatus `json:"status"`
	ItemCount  int               `json:"item_count"`
	Categories int               `json:"categories"`
	Vendors    int               `json:"vendors"`
}

// Summarize reports the current draft status, item count, count of distinct
// categorized categories, and vendor count.
func (c *Controller) Summarize() (*Summary, error) {
	draft, err := c.drafts.Get()
	if err != nil {
		return nil, err
	}
	vendors, err := c.vendors.List()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, item := range draft.Items {
		if item.Category != catalog.Uncategorized {
			seen[item.Category] = true
		}
	}
	return &Summary{
		Status:     draft.Status,
		ItemCount:  len(draft.Items),
		Categories: len(seen),
		Vendors:    len(vendors),
	}, nil
}

type categoryGroup struct {
	category string
	items    []model.LineItem
}

// groupByCategory buckets categorized items by category in first-seen order,
// skipping Uncategorized.
func groupByCategory(items []model.LineItem) []categoryGroup {
	index := map[string]int{}
	var groups []categoryGroup
	for _, item := range items {
		if item.Category == catalog.Uncategorized {
			continue
		}
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, categoryGroup{category: item.Category})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}
