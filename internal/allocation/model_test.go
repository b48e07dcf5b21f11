package allocation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/store"
)

const eps = 1e-9

// fakeGateway records saves and can be told to fail.
type fakeGateway struct {
	mu      sync.Mutex
	initial []model.Category
	saved   [][]model.Category
	failErr error
}

func (f *fakeGateway) Load() []model.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Category, len(f.initial))
	copy(out, f.initial)
	return out
}

func (f *fakeGateway) Save(cats []model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.saved = append(f.saved, cats)
	return nil
}

func (f *fakeGateway) saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) RequestRefresh() {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func weekModel(t *testing.T) (*Model, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{initial: []model.Category{
		{ID: "sleep", Name: "Sleep", Hours: 56, ColorID: "red"},
		{ID: "work", Name: "Work", Hours: 40, ColorID: "orange"},
		{ID: "free", Name: "Free", Hours: 72, ColorID: "green"},
	}}
	return New(gw, WithIDGenerator(sequentialIDs())), gw
}

func TestFullBudgetScenario(t *testing.T) {
	m, _ := weekModel(t)

	assert.InDelta(t, 0, m.RemainingHours(), eps)

	c := m.AddCategory()
	assert.Equal(t, "Category 4", c.Name)
	assert.Equal(t, "blue", c.ColorID, "fourth category takes palette[3]")
	assert.InDelta(t, 0, m.MaxAvailableHours(c.ID), eps)

	got := m.SetCategoryHours(c.ID, 10)
	assert.Equal(t, 0.0, got)

	stored, ok := m.Category(c.ID)
	require.True(t, ok)
	assert.Equal(t, 0.0, stored.Hours)
}

func TestFirstRunLoadsDefaults(t *testing.T) {
	m := New(store.NewGateway(store.NewMemory(), "", nil))

	cats := m.Categories()
	require.Len(t, cats, 3)
	assert.InDelta(t, model.TotalHours, m.TotalUsedHours(), eps)
	assert.Equal(t, []string{"red", "orange", "green"}, []string{cats[0].ColorID, cats[1].ColorID, cats[2].ColorID})
}

func TestCorruptSnapshotFallsBackAndFlags(t *testing.T) {
	region := store.NewMemory()
	require.NoError(t, region.Set(store.DefaultKey, []byte("{not json")))
	gw := store.NewGateway(region, store.DefaultKey, nil)

	m := New(gw)
	assert.Len(t, m.Categories(), 3)
	assert.True(t, errors.Is(gw.LastError(), store.ErrDecode))
}

func TestSetCategoryHoursClampsAndRounds(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		want      float64
	}{
		{"within budget", 20, 20},
		{"rounds to one decimal", 12.345, 12.3},
		{"rounds up", 12.36, 12.4},
		{"negative clamps to zero", -4, 0},
		{"NaN clamps to zero", math.NaN(), 0},
		{"over budget saturates", 500, 72},
		{"infinite saturates", math.Inf(1), 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := weekModel(t)
			m.SetCategoryHours("free", 0)

			got := m.SetCategoryHours("free", tt.requested)
			assert.InDelta(t, tt.want, got, eps)

			c, _ := m.Category("free")
			assert.InDelta(t, tt.want, c.Hours, eps)
		})
	}
}

func TestSetCategoryHoursUnknownIDIsNoop(t *testing.T) {
	m, gw := weekModel(t)
	assert.Equal(t, 0.0, m.SetCategoryHours("nope", 5))
	assert.Equal(t, 0, gw.saves())
}

func TestSetCategoryHoursMatchesFormula(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m, _ := weekModel(t)
	ids := []string{"sleep", "work", "free"}

	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		x := rng.Float64()*220 - 30

		ceiling := m.MaxAvailableHours(id)
		want := math.Round(math.Max(0, math.Min(x, ceiling))*10) / 10
		if want > ceiling+eps {
			want = model.FloorHours(ceiling)
		}

		got := m.SetCategoryHours(id, x)
		require.InDelta(t, want, got, eps, "iteration %d: set %s to %.3f", i, id, x)

		total := m.TotalUsedHours()
		require.LessOrEqual(t, total, model.TotalHours+1e-6, "iteration %d", i)
		for _, c := range m.Categories() {
			require.GreaterOrEqual(t, c.Hours, 0.0)
		}
	}
}

func TestMoveBlock(t *testing.T) {
	m, gw := weekModel(t)

	require.True(t, m.MoveBlock("sleep", "work"))
	sleep, _ := m.Category("sleep")
	work, _ := m.Category("work")
	assert.InDelta(t, 55, sleep.Hours, eps)
	assert.InDelta(t, 41, work.Hours, eps)
	assert.InDelta(t, model.TotalHours, m.TotalUsedHours(), eps)
	assert.Equal(t, 1, gw.saves())

	assert.False(t, m.MoveBlock("sleep", "sleep"), "same id is a no-op")
	assert.False(t, m.MoveBlock("sleep", "missing"))

	m.SetCategoryHours("work", 0.5)
	saves := gw.saves()
	assert.False(t, m.MoveBlock("work", "sleep"), "source under one block")
	assert.Equal(t, saves, gw.saves(), "no-op moves do not save")
}

func TestMoveBlockRoundsFractions(t *testing.T) {
	m, _ := weekModel(t)
	m.SetCategoryHours("free", 0)
	m.SetCategoryHours("work", 1.3)

	require.True(t, m.MoveBlock("work", "free"))
	work, _ := m.Category("work")
	free, _ := m.Category("free")
	assert.Equal(t, 0.3, work.Hours)
	assert.Equal(t, 1.0, free.Hours)
}

func TestAddRemoveRenameColor(t *testing.T) {
	m, _ := weekModel(t)

	c := m.AddCategory()
	m.RenameCategory(c.ID, "  Reading  ")
	got, _ := m.Category(c.ID)
	assert.Equal(t, "Reading", got.Name)

	m.RenameCategory(c.ID, "   ")
	got, _ = m.Category(c.ID)
	assert.Equal(t, model.UnnamedCategory, got.Name)

	m.SetCategoryColor(c.ID, "not-a-color")
	got, _ = m.Category(c.ID)
	assert.Equal(t, "not-a-color", got.ColorID)
	assert.Equal(t, "red", got.Color().ID, "unknown colors render as the first entry")

	m.RemoveCategory(c.ID)
	_, ok := m.Category(c.ID)
	assert.False(t, ok)
	assert.Len(t, m.Categories(), 3)

	m.RemoveCategory("missing")
	m.RenameCategory("missing", "x")
	m.SetCategoryColor("missing", "blue")
	assert.Len(t, m.Categories(), 3)
}

func TestAddCategoryCyclesPalette(t *testing.T) {
	m := New(&fakeGateway{}, WithIDGenerator(sequentialIDs()))
	for i := 0; i < len(model.Palette)+2; i++ {
		c := m.AddCategory()
		assert.Equal(t, model.Palette[i%len(model.Palette)].ID, c.ColorID)
		assert.Equal(t, fmt.Sprintf("Category %d", i+1), c.Name)
		assert.Equal(t, 0.0, c.Hours)
	}
}

func TestVisibleAndStats(t *testing.T) {
	m, _ := weekModel(t)
	m.SetCategoryHours("work", 0)
	m.AddCategory()

	visible := m.VisibleCategories()
	require.Len(t, visible, 2)
	assert.Equal(t, "sleep", visible[0].ID)
	assert.Equal(t, "free", visible[1].ID)
	assert.InDelta(t, 40, m.RemainingHours(), eps)
	assert.InDelta(t, 40, m.MaxAvailableHours("work"), eps)
	assert.Len(t, m.Blocks(), 128)
}

func TestSaveFailureIsRecordedNotRaised(t *testing.T) {
	gw := &fakeGateway{failErr: errors.New("disk full")}
	n := &countingNotifier{}
	m := New(gw, WithNotifier(n))

	m.AddCategory()
	require.Error(t, m.LastError())
	assert.Equal(t, 0, n.count(), "no refresh after a failed save")

	gw.mu.Lock()
	gw.failErr = nil
	gw.mu.Unlock()

	m.AddCategory()
	assert.NoError(t, m.LastError())
	assert.Equal(t, 1, n.count())
}

func TestSubscribeReceivesEvents(t *testing.T) {
	m, _ := weekModel(t)
	events, cancel := m.Subscribe(4)
	defer cancel()

	m.SetCategoryHours("work", 30)
	ev := <-events
	assert.Equal(t, EventUpdated, ev.Type)
	assert.Equal(t, "work", ev.ID)
	require.Len(t, ev.Categories, 3)
	assert.InDelta(t, 30, ev.Categories[1].Hours, eps)

	// The event carries a copy.
	ev.Categories[1].Hours = 99
	c, _ := m.Category("work")
	assert.InDelta(t, 30, c.Hours, eps)

	cancel()
	_, open := <-events
	assert.False(t, open, "cancel closes the channel")
	cancel()
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	m, _ := weekModel(t)
	_, cancel := m.Subscribe(1)
	defer cancel()

	for i := 0; i < 10; i++ {
		m.SetCategoryHours("work", float64(i))
	}
	c, _ := m.Category("work")
	assert.InDelta(t, 9, c.Hours, eps)
}

func TestReplaceSanitizesAndClamps(t *testing.T) {
	m := New(&fakeGateway{}, WithIDGenerator(sequentialIDs()))
	m.Replace([]model.Category{
		{ID: "a", Name: "A", Hours: 100, ColorID: "red"},
		{ID: "", Name: " ", Hours: 50.04, ColorID: "blue"},
		{ID: "a", Name: "dup", Hours: 40, ColorID: "green"},
		{ID: "d", Name: "D", Hours: -3, ColorID: "pink"},
	})

	cats := m.Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, "a", cats[0].ID)
	assert.Equal(t, "id-1", cats[1].ID)
	assert.Equal(t, model.UnnamedCategory, cats[1].Name)
	assert.InDelta(t, 50, cats[1].Hours, eps)
	assert.NotEqual(t, "a", cats[2].ID, "duplicate ids are reassigned")
	assert.InDelta(t, 18, cats[2].Hours, eps, "clamped to what is left")
	assert.Equal(t, 0.0, cats[3].Hours)
	assert.LessOrEqual(t, m.TotalUsedHours(), model.TotalHours+eps)
}

func TestResetAndReload(t *testing.T) {
	region := store.NewMemory()
	gw := store.NewGateway(region, "", nil)
	m := New(gw)

	m.Replace([]model.Category{{ID: "x", Name: "Only", Hours: 5, ColorID: "blue"}})
	require.Len(t, m.Categories(), 1)

	other := New(gw)
	require.Len(t, other.Categories(), 1)

	m.Reset()
	require.Len(t, m.Categories(), 3)

	other.Reload()
	assert.Len(t, other.Categories(), 3)
	assert.InDelta(t, model.TotalHours, other.TotalUsedHours(), eps)
}

func TestConcurrentCommitsSaveInOrder(t *testing.T) {
	gw := &fakeGateway{}
	m := New(gw)
	events, cancel := m.Subscribe(64)
	defer cancel()

	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AddCategory()
		}()
	}
	wg.Wait()

	gw.mu.Lock()
	saved := gw.saved
	gw.mu.Unlock()
	require.Len(t, saved, writers)
	for i := 1; i < len(saved); i++ {
		assert.GreaterOrEqual(t, len(saved[i]), len(saved[i-1]), "save %d went back in time", i)
	}
	assert.Len(t, saved[len(saved)-1], writers, "last save holds the newest collection")

	prev := 0
	for i := 0; i < writers; i++ {
		ev := <-events
		assert.GreaterOrEqual(t, len(ev.Categories), prev, "event %d out of order", i)
		prev = len(ev.Categories)
	}
}
