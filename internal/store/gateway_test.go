package store

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/theirongolddev/blockstime/internal/model"
)

func sampleCategories() []model.Category {
	return []model.Category{
		{ID: "a1", Name: "Sleep", Hours: 56, ColorID: "red"},
		{ID: "b2", Name: "Deep work", Hours: 37.5, ColorID: "blue"},
		{ID: "c3", Name: "", Hours: 0, ColorID: "no-such-color"},
		{ID: "d4", Name: "Gym", Hours: 4.2, ColorID: "pink"},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	want := sampleCategories()

	data, err := EncodeSnapshot(want)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	got, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotWireFormat(t *testing.T) {
	data, err := EncodeSnapshot([]model.Category{{ID: "x", Name: "Read", Hours: 3, ColorID: "green"}})
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"id":"x","name":"Read","hours":3,"colorId":"green"}]`
	if string(data) != want {
		t.Fatalf("wire = %s, want %s", data, want)
	}

	empty, _ := EncodeSnapshot(nil)
	if string(empty) != "[]" {
		t.Fatalf("nil snapshot encodes to %s, want []", empty)
	}
}

func TestGatewayFirstRunUsesDefaults(t *testing.T) {
	g := NewGateway(NewMemory(), "", nil)

	cats := g.Load()
	if len(cats) != 3 {
		t.Fatalf("len = %d, want 3", len(cats))
	}
	if model.SumHours(cats) != model.TotalHours {
		t.Fatalf("defaults sum to %.1f", model.SumHours(cats))
	}
	if g.LastError() != nil {
		t.Fatalf("missing snapshot should not record an error, got %v", g.LastError())
	}
}

func TestGatewayCorruptSnapshotFallsBack(t *testing.T) {
	region := NewMemory()
	_ = region.Set(DefaultKey, []byte(`[{"id": "a", "hours": "lots"`))
	g := NewGateway(region, DefaultKey, nil)

	cats := g.Load()
	if len(cats) != 3 || cats[0].Name != "Sleep" {
		t.Fatalf("expected default categories, got %+v", cats)
	}
	if !errors.Is(g.LastError(), ErrDecode) {
		t.Fatalf("LastError = %v, want ErrDecode", g.LastError())
	}

	// A good save clears the flag.
	if err := g.Save(sampleCategories()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if g.LastError() != nil {
		t.Fatalf("LastError after save = %v", g.LastError())
	}
}

func TestGatewayNullSnapshotIsCorrupt(t *testing.T) {
	region := NewMemory()
	_ = region.Set(DefaultKey, []byte("null"))
	g := NewGateway(region, DefaultKey, nil)

	g.Load()
	if !errors.Is(g.LastError(), ErrDecode) {
		t.Fatalf("LastError = %v, want ErrDecode", g.LastError())
	}
}

func TestGatewayUnavailableRegion(t *testing.T) {
	cause := errors.New("app group not configured")
	g := NewGateway(Unavailable(cause), DefaultKey, nil)

	cats := g.Load()
	if len(cats) != 3 {
		t.Fatalf("expected defaults, got %d categories", len(cats))
	}
	if !errors.Is(g.LastError(), ErrUnavailable) {
		t.Fatalf("LastError = %v, want ErrUnavailable", g.LastError())
	}
	if !errors.Is(g.LastError(), cause) {
		t.Fatalf("LastError should wrap the cause, got %v", g.LastError())
	}

	err := g.Save(sampleCategories())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Save err = %v, want ErrUnavailable", err)
	}

	d := g.Inspect()
	if d.Healthy || d.LastError == "" {
		t.Fatalf("Inspect should report unhealthy, got %+v", d)
	}
}

func TestGatewayEncodeFailure(t *testing.T) {
	g := NewGateway(NewMemory(), DefaultKey, nil)

	err := g.Save([]model.Category{{ID: "x", Hours: math.NaN()}})
	if !errors.Is(err, ErrEncode) {
		t.Fatalf("Save err = %v, want ErrEncode", err)
	}
	if !errors.Is(g.LastError(), ErrEncode) {
		t.Fatalf("LastError = %v, want ErrEncode", g.LastError())
	}
}

func TestGatewaySaveLoadPreservesOrder(t *testing.T) {
	g := NewGateway(NewMemory(), "custom", nil)
	want := sampleCategories()

	if err := g.Save(want); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, g.Load()); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}

	d := g.Inspect()
	if !d.Healthy || !d.HasSnapshot || d.Categories != 4 || d.Visible != 3 {
		t.Fatalf("Inspect = %+v", d)
	}
	if len(d.Keys) != 1 || d.Keys[0] != "custom" {
		t.Fatalf("Keys = %v, want [custom]", d.Keys)
	}
}
