package admin

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/cafe-fausse/server/internal/models"
)

// Field names one editable attribute of a menu item.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
	FieldImage       Field = "image"
)

// Placeholder values for a freshly added item.
const (
	placeholderName        = "New Item"
	placeholderDescription = "Description here"
	placeholderPrice       = "$0.00"
)

// EditorItem is one menu item under edit. ID is a local handle that stays
// stable across renames and reorders; serverName is the name the backend
// knows the item by, empty until the item has been saved at least once.
type EditorItem struct {
	ID          string
	Name        string
	Description string
	Price       string
	Image       string

	serverName string
}

// Persisted reports whether the backend has a record of this item.
func (it EditorItem) Persisted() bool { return it.serverName != "" }

// record builds the full payload sent to the backend on save.
func (it EditorItem) record() models.MenuItem {
	return models.MenuItem{
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Image:       it.Image,
	}
}

// EditorSection is one menu section under edit.
type EditorSection struct {
	ID          string
	Title       string
	Description string
	Items       []EditorItem
}

// MenuEditor is the admin dashboard workflow: it loads the menu into an
// editable working copy and pushes item-level changes back to the backend.
// Edits are local until SaveItem is called for that item.
type MenuEditor struct {
	client Backend
	creds  CredentialStore
	nav    Navigator
	logger *slog.Logger

	mu       sync.Mutex
	sections []EditorSection
	loading  bool
	loadErr  string

	saving   map[string]bool
	itemMsgs map[string]string
}

// NewMenuEditor creates a MenuEditor.
func NewMenuEditor(client Backend, creds CredentialStore, nav Navigator, logger *slog.Logger) *MenuEditor {
	return &MenuEditor{
		client:   client,
		creds:    creds,
		nav:      nav,
		logger:   logger,
		saving:   make(map[string]bool),
		itemMsgs: make(map[string]string),
	}
}

// Load fetches the menu and replaces the working copy. A failure keeps the
// previous copy (if any) and records an error message; Retry is the same
// call again.
func (e *MenuEditor) Load(ctx context.Context) {
	e.mu.Lock()
	e.loading = true
	e.loadErr = ""
	e.mu.Unlock()

	sections, err := e.client.MenuSections(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false
	if err != nil {
		e.loadErr = backendMessage(err, "Could not load the menu.")
		e.logger.Error("menu load failed", slog.String("error", err.Error()))
		return
	}

	e.sections = make([]EditorSection, 0, len(sections))
	for _, sec := range sections {
		es := EditorSection{
			ID:          uuid.NewString(),
			Title:       sec.Title,
			Description: sec.Description,
			Items:       make([]EditorItem, 0, len(sec.Items)),
		}
		for _, it := range sec.Items {
			es.Items = append(es.Items, EditorItem{
				ID:          uuid.NewString(),
				Name:        it.Name,
				Description: it.Description,
				Price:       it.Price,
				Image:       it.Image,
				serverName:  it.Name,
			})
		}
		e.sections = append(e.sections, es)
	}
	e.saving = make(map[string]bool)
	e.itemMsgs = make(map[string]string)
}

// LoadState reports whether a load is in flight and the last load error, if
// any. An empty error means the working copy is usable.
func (e *MenuEditor) LoadState() (loading bool, loadErr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading, e.loadErr
}

// Sections returns a snapshot of the working copy.
func (e *MenuEditor) Sections() []EditorSection {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]EditorSection, len(e.sections))
	for i, sec := range e.sections {
		out[i] = sec
		out[i].Items = make([]EditorItem, len(sec.Items))
		copy(out[i].Items, sec.Items)
	}
	return out
}

// EditField updates one attribute of the addressed item in the working copy.
// Setting a field to its current value is a no-op. The edit is local; the
// backend sees it only on SaveItem.
func (e *MenuEditor) EditField(sectionID, itemID string, field Field, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	it := e.findItem(sectionID, itemID)
	if it == nil {
		return false
	}
	switch field {
	case FieldName:
		it.Name = value
	case FieldDescription:
		it.Description = value
	case FieldPrice:
		it.Price = value
	case FieldImage:
		it.Image = value
	default:
		return false
	}
	return true
}

// AddItem appends a placeholder item to the addressed section and returns
// its local ID. Other sections are untouched. The new item is local only
// until it is saved.
func (e *MenuEditor) AddItem(sectionID string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.sections {
		if e.sections[i].ID != sectionID {
			continue
		}
		item := EditorItem{
			ID:          uuid.NewString(),
			Name:        placeholderName,
			Description: placeholderDescription,
			Price:       placeholderPrice,
		}
		e.sections[i].Items = append(e.sections[i].Items, item)
		return item.ID, true
	}
	return "", false
}

// RemoveItem deletes the addressed item. Items the backend knows about are
// deleted there first; the local copy is only dropped once the backend
// confirms, so a failed delete leaves the item in place with its error
// message. Never-saved items are dropped immediately.
func (e *MenuEditor) RemoveItem(ctx context.Context, sectionID, itemID string) bool {
	e.mu.Lock()
	it := e.findItem(sectionID, itemID)
	if it == nil {
		e.mu.Unlock()
		return false
	}
	serverName := it.serverName
	e.mu.Unlock()

	if serverName != "" {
		if err := e.client.DeleteMenuItem(ctx, serverName); err != nil {
			e.mu.Lock()
			e.itemMsgs[itemID] = backendMessage(err, "Could not delete the item.")
			e.mu.Unlock()
			return false
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.sections {
		if e.sections[i].ID != sectionID {
			continue
		}
		items := e.sections[i].Items
		for j := range items {
			if items[j].ID == itemID {
				e.sections[i].Items = append(items[:j], items[j+1:]...)
				delete(e.itemMsgs, itemID)
				return true
			}
		}
	}
	return false
}

// SaveItem pushes the addressed item's full record to the backend. A save
// already in flight for the same item makes the call a no-op. On success the
// item's server name is updated to match what was just persisted.
func (e *MenuEditor) SaveItem(ctx context.Context, sectionID, itemID string) bool {
	e.mu.Lock()
	it := e.findItem(sectionID, itemID)
	if it == nil || e.saving[itemID] {
		e.mu.Unlock()
		return false
	}
	e.saving[itemID] = true
	record := it.record()
	e.mu.Unlock()

	err := e.client.SaveMenuItem(ctx, record)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.saving, itemID)
	if err != nil {
		e.itemMsgs[itemID] = backendMessage(err, "Could not save the item.")
		return false
	}
	delete(e.itemMsgs, itemID)
	if it := e.findItem(sectionID, itemID); it != nil {
		it.serverName = record.Name
	}
	return true
}

// Saving reports whether a save for the item is in flight.
func (e *MenuEditor) Saving(itemID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving[itemID]
}

// ItemError returns the last save or delete error for the item, or "".
func (e *MenuEditor) ItemError(itemID string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.itemMsgs[itemID]
}

// Logout ends the session: the backend invalidates the token, the stored
// credential is cleared, and the UI returns to the login screen. Credential
// clearing proceeds even if the backend call fails so a broken backend
// cannot pin the user into a session.
func (e *MenuEditor) Logout(ctx context.Context) {
	if err := e.client.Logout(ctx); err != nil {
		e.logger.Warn("backend logout failed", slog.String("error", err.Error()))
	}
	if err := e.creds.Clear(); err != nil {
		e.logger.Error("clear credential failed", slog.String("error", err.Error()))
	}
	e.nav.Navigate(RouteLogin)
}

// findItem returns a pointer into the working copy. Callers hold e.mu.
func (e *MenuEditor) findItem(sectionID, itemID string) *EditorItem {
	for i := range e.sections {
		if e.sections[i].ID != sectionID {
			continue
		}
		for j := range e.sections[i].Items {
			if e.sections[i].Items[j].ID == itemID {
				return &e.sections[i].Items[j]
			}
		}
	}
	return nil
}
