package store

import (
	"errors"
	"sync"
	"time"

	"github.com/theirongolddev/blockstime/internal/model"

	"go.uber.org/zap"
)

// DefaultKey is the fixed key the snapshot lives under.
const DefaultKey = "blockstimeCategories"

// Gateway loads and saves the category snapshot. Load never fails: storage
// and decode problems fall back to model.DefaultCategories and are kept in
// LastError for diagnostics.
type Gateway struct {
	region Region
	key    string
	log    *zap.Logger

	mu      sync.RWMutex
	lastErr error
}

// NewGateway wraps region. An empty key uses DefaultKey; a nil logger is a no-op.
func NewGateway(region Region, key string, log *zap.Logger) *Gateway {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{region: region, key: key, log: log}
}

// Key is the snapshot key.
func (g *Gateway) Key() string {
	return g.key
}

// Load returns the stored categories, or the default set.
func (g *Gateway) Load() []model.Category {
	data, ok, err := g.region.Get(g.key)
	if err != nil {
		err = asKind(ErrUnavailable, err)
		g.setLastError(err)
		g.log.Warn("snapshot load failed, using defaults", zap.String("key", g.key), zap.Error(err))
		return model.DefaultCategories()
	}
	if !ok {
		g.setLastError(nil)
		g.log.Debug("no snapshot stored, using defaults", zap.String("key", g.key))
		return model.DefaultCategories()
	}

	cats, err := DecodeSnapshot(data)
	if err != nil {
		err = &Error{Kind: ErrDecode, Err: err}
		g.setLastError(err)
		g.log.Warn("snapshot corrupted, using defaults",
			zap.String("key", g.key),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		return model.DefaultCategories()
	}

	g.setLastError(nil)
	g.log.Debug("snapshot loaded",
		zap.Int("categories", len(cats)),
		zap.Int("visible", len(model.Visible(cats))),
		zap.Int("bytes", len(data)))
	return cats
}

// Save writes the categories. The error is also kept in LastError.
func (g *Gateway) Save(cats []model.Category) error {
	data, err := EncodeSnapshot(cats)
	if err != nil {
		err = &Error{Kind: ErrEncode, Err: err}
		g.setLastError(err)
		g.log.Error("snapshot encode failed", zap.Error(err))
		return err
	}

	if err := g.region.Set(g.key, data); err != nil {
		err = asKind(ErrUnavailable, err)
		g.setLastError(err)
		g.log.Error("snapshot save failed", zap.String("key", g.key), zap.Error(err))
		return err
	}

	g.setLastError(nil)
	g.log.Debug("snapshot saved", zap.Int("categories", len(cats)), zap.Int("bytes", len(data)))
	return nil
}

// LastError is the most recent load/save failure, nil after a success.
func (g *Gateway) LastError() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastErr
}

func (g *Gateway) setLastError(err error) {
	g.mu.Lock()
	g.lastErr = err
	g.mu.Unlock()
}

// Diagnostics describes the shared region for the diagnostics view.
type Diagnostics struct {
	Key           string    `json:"key"`
	Keys          []string  `json:"keys"`
	HasSnapshot   bool      `json:"has_snapshot"`
	SnapshotBytes int       `json:"snapshot_bytes"`
	Categories    int       `json:"categories"`
	Visible       int       `json:"visible"`
	UpdatedAt     time.Time `json:"updated_at"`
	LastError     string    `json:"last_error,omitempty"`
	Healthy       bool      `json:"healthy"`
}

// Inspect reads the region without touching LastError.
func (g *Gateway) Inspect() Diagnostics {
	d := Diagnostics{Key: g.key}

	keys, err := g.region.Keys()
	if err != nil {
		d.LastError = asKind(ErrUnavailable, err).Error()
		return d
	}
	d.Keys = keys

	data, ok, err := g.region.Get(g.key)
	if err != nil {
		d.LastError = asKind(ErrUnavailable, err).Error()
		return d
	}
	d.HasSnapshot = ok
	d.SnapshotBytes = len(data)
	d.UpdatedAt, _ = g.region.UpdatedAt(g.key)

	if ok {
		cats, err := DecodeSnapshot(data)
		if err != nil {
			d.LastError = (&Error{Kind: ErrDecode, Err: err}).Error()
			return d
		}
		d.Categories = len(cats)
		d.Visible = len(model.Visible(cats))
	}

	if last := g.LastError(); last != nil {
		d.LastError = last.Error()
	}
	d.Healthy = d.LastError == ""
	return d
}

// asKind wraps err with kind unless it already carries a store kind.
func asKind(kind, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}
