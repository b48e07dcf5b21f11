// Package allocation owns the category collection and the 168-hour budget.
//
// Every mutation keeps the invariant sum(hours) <= model.TotalHours by
// clamping rather than rejecting, writes the new snapshot through to the
// persistence gateway, and broadcasts a change Event to subscribers.
package allocation

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/theirongolddev/blockstime/internal/model"

	"go.uber.org/zap"
)

// Gateway is the persistence contract the model writes through to.
type Gateway interface {
	Load() []model.Category
	Save(cats []model.Category) error
}

// Notifier is told to refresh after each successful save. It must not block.
type Notifier interface {
	RequestRefresh()
}

// EventType names what changed.
type EventType string

const (
	EventLoaded  EventType = "loaded"
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
	EventUpdated EventType = "updated"
	EventMoved   EventType = "moved"
	EventReplace EventType = "replaced"
)

// Event is broadcast after every mutation.
type Event struct {
	Type       EventType
	ID         string // affected category, empty for whole-collection events
	Categories []model.Category
	SaveErr    error
}

// Model is the allocation model.
type Model struct {
	gw       Gateway
	notifier Notifier
	log      *zap.Logger
	newID    func() string

	mu         sync.Mutex
	categories []model.Category
	lastErr    error

	// saveMu orders commits so the last save holds the newest collection.
	saveMu sync.Mutex

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]chan Event
}

// Option configures a Model.
type Option func(*Model)

// WithNotifier sets the widget refresh collaborator.
func WithNotifier(n Notifier) Option {
	return func(m *Model) { m.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithIDGenerator overrides uuid generation, for tests.
func WithIDGenerator(fn func() string) Option {
	return func(m *Model) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// New builds a model and loads the initial collection from gw.
func New(gw Gateway, opts ...Option) *Model {
	m := &Model{
		gw:    gw,
		log:   zap.NewNop(),
		newID: model.NewID,
		subs:  make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.categories = cloneCategories(gw.Load())
	return m
}

// Reload replaces the collection with whatever the gateway holds now.
func (m *Model) Reload() {
	cats := cloneCategories(m.gw.Load())

	m.mu.Lock()
	m.categories = cats
	snap := cloneCategories(cats)
	m.mu.Unlock()

	m.publish(Event{Type: EventLoaded, Categories: snap})
}

// Categories returns a copy of the collection.
func (m *Model) Categories() []model.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneCategories(m.categories)
}

// Category looks up one category by id.
func (m *Model) Category(id string) (model.Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(id); i >= 0 {
		return m.categories[i], true
	}
	return model.Category{}, false
}

// AddCategory appends an empty category and returns it.
func (m *Model) AddCategory() model.Category {
	m.mu.Lock()
	n := len(m.categories)
	c := model.Category{
		ID:      m.newID(),
		Name:    fmt.Sprintf("Category %d", n+1),
		Hours:   0,
		ColorID: model.Palette[n%len(model.Palette)].ID,
	}
	m.categories = append(m.categories, c)
	m.mu.Unlock()

	m.commit(EventAdded, c.ID)
	return c
}

// RemoveCategory deletes the category with id. Missing ids are ignored.
func (m *Model) RemoveCategory(id string) {
	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return
	}
	m.categories = append(m.categories[:i], m.categories[i+1:]...)
	m.mu.Unlock()

	m.commit(EventRemoved, id)
}

// RenameCategory sets the name; an empty name becomes model.UnnamedCategory.
func (m *Model) RenameCategory(id, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = model.UnnamedCategory
	}

	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return
	}
	m.categories[i].Name = name
	m.mu.Unlock()

	m.commit(EventUpdated, id)
}

// SetCategoryColor sets the color reference. Unknown ids resolve to the
// first palette entry when rendered.
func (m *Model) SetCategoryColor(id, colorID string) {
	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return
	}
	m.categories[i].ColorID = colorID
	m.mu.Unlock()

	m.commit(EventUpdated, id)
}

// SetCategoryHours clamps requested into [0, MaxAvailableHours(id)],
// rounds to one decimal and stores it. It returns the stored value.
func (m *Model) SetCategoryHours(id string, requested float64) float64 {
	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return 0
	}

	maxAvailable := model.TotalHours - m.otherTotal(id)
	hours := clampHours(requested, maxAvailable)
	m.categories[i].Hours = hours
	m.mu.Unlock()

	m.commit(EventUpdated, id)
	return hours
}

// MoveBlock shifts one block from fromID to toID. It does nothing unless the
// ids differ, both exist, and the source holds at least one block.
func (m *Model) MoveBlock(fromID, toID string) bool {
	if fromID == toID {
		return false
	}

	m.mu.Lock()
	from, to := m.indexOf(fromID), m.indexOf(toID)
	if from < 0 || to < 0 || m.categories[from].Hours < model.BlockHours {
		m.mu.Unlock()
		return false
	}
	m.categories[from].Hours = model.RoundHours(m.categories[from].Hours - model.BlockHours)
	m.categories[to].Hours = model.RoundHours(m.categories[to].Hours + model.BlockHours)
	m.mu.Unlock()

	m.commit(EventMoved, fromID)
	return true
}

// Reset replaces the collection with the default set.
func (m *Model) Reset() {
	m.mu.Lock()
	m.categories = model.DefaultCategories()
	m.mu.Unlock()

	m.commit(EventReplace, "")
}

// Replace installs an imported collection. Entries are sanitized and
// clamped in order so the budget holds.
func (m *Model) Replace(cats []model.Category) {
	clean := make([]model.Category, 0, len(cats))
	seen := make(map[string]bool, len(cats))
	var used float64

	for _, c := range cats {
		if c.ID == "" || seen[c.ID] {
			c.ID = m.newID()
		}
		seen[c.ID] = true

		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			c.Name = model.UnnamedCategory
		}

		c.Hours = clampHours(c.Hours, model.TotalHours-used)
		used += c.Hours
		clean = append(clean, c)
	}

	m.mu.Lock()
	m.categories = clean
	m.mu.Unlock()

	m.commit(EventReplace, "")
}

// TotalUsedHours sums every category's hours.
func (m *Model) TotalUsedHours() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.SumHours(m.categories)
}

// RemainingHours is the unallocated part of the budget.
func (m *Model) RemainingHours() float64 {
	return model.TotalHours - m.TotalUsedHours()
}

// VisibleCategories returns the categories with hours > 0, order kept.
func (m *Model) VisibleCategories() []model.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Visible(m.categories)
}

// MaxAvailableHours is the ceiling SetCategoryHours allows for id.
func (m *Model) MaxAvailableHours(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.TotalHours - m.otherTotal(id)
}

// Blocks is the block sequence the grids render.
func (m *Model) Blocks() []model.Block {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Blocks(cloneCategories(m.categories))
}

// LastError is the most recent save failure, nil after a successful save.
func (m *Model) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// commit writes the collection through and broadcasts the change.
// Save failures are recorded, logged and carried on the event.
func (m *Model) commit(typ EventType, id string) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	snap := cloneCategories(m.categories)
	m.mu.Unlock()

	err := m.gw.Save(snap)

	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()

	if err != nil {
		m.log.Warn("save failed", zap.String("event", string(typ)), zap.String("id", id), zap.Error(err))
	} else {
		m.log.Debug("saved", zap.String("event", string(typ)), zap.String("id", id), zap.Int("categories", len(snap)))
		if m.notifier != nil {
			m.notifier.RequestRefresh()
		}
	}

	m.publish(Event{Type: typ, ID: id, Categories: snap, SaveErr: err})
}

// Subscribe returns a channel of change events and a cancel func.
// Events are dropped for subscribers that fall behind.
func (m *Model) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	m.subMu.Lock()
	m.nextSubID++
	id := m.nextSubID
	m.subs[id] = ch
	m.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (m *Model) publish(ev Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// indexOf must be called with mu held.
func (m *Model) indexOf(id string) int {
	for i, c := range m.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// otherTotal must be called with mu held.
func (m *Model) otherTotal(id string) float64 {
	var total float64
	for _, c := range m.categories {
		if c.ID != id {
			total += c.Hours
		}
	}
	return total
}

// clampHours bounds requested to [0, ceiling] at one-decimal precision.
// Rounding never pushes the result above the ceiling.
func clampHours(requested, ceiling float64) float64 {
	if math.IsNaN(requested) || requested < 0 {
		requested = 0
	}
	if ceiling < 0 {
		ceiling = 0
	}
	h := math.Min(requested, ceiling)
	rounded := model.RoundHours(h)
	if rounded > ceiling+1e-9 {
		rounded = model.FloorHours(ceiling)
	}
	return rounded
}

func cloneCategories(cats []model.Category) []model.Category {
	if cats == nil {
		return []model.Category{}
	}
	out := make([]model.Category, len(cats))
	copy(out, cats)
	return out
}
