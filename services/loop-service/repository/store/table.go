package store

import (
	"context"
	"encoding/json"
	"maps"
)

// table is one JSON array of records under a single key.
// Exported methods take the store mutex; the lower-case ones expect it held.
type table[T, P any] struct {
	store *Store
	key   string
	id    func(*T) *int64
	// prepend stores new records first instead of last
	prepend bool
	// prepare fills defaults on records about to be added
	prepare func(*T)
}

func newTable[T, P any](s *Store, key string, id func(*T) *int64) *table[T, P] {
	return &table[T, P]{store: s, key: key, id: id}
}

func (t *table[T, P]) idOf(record T) int64 {
	return *t.id(&record)
}

func (t *table[T, P]) load(ctx context.Context) []T {
	var rows []T
	if !t.store.readJSON(ctx, t.key, &rows) || rows == nil {
		return []T{}
	}
	return rows
}

func (t *table[T, P]) save(ctx context.Context, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	if err := t.store.writeJSON(ctx, t.key, rows); err != nil {
		return err
	}
	t.store.logger.DebugContext(ctx, "Table written", "table", t.key, "records", len(rows))
	return nil
}

func (t *table[T, P]) nextID(rows []T) int64 {
	var highest int64
	for _, row := range rows {
		if id := t.idOf(row); id > highest {
			highest = id
		}
	}
	return highest + 1
}

func (t *table[T, P]) find(rows []T, id int64) int {
	for i, row := range rows {
		if t.idOf(row) == id {
			return i
		}
	}
	return -1
}

func (t *table[T, P]) add(ctx context.Context, record T) T {
	rows := t.load(ctx)
	*t.id(&record) = t.nextID(rows)
	if t.prepare != nil {
		t.prepare(&record)
	}

	if t.prepend {
		rows = append([]T{record}, rows...)
	} else {
		rows = append(rows, record)
	}
	_ = t.save(ctx, rows)

	t.store.logger.InfoContext(ctx, "Record added", "table", t.key, "id", t.idOf(record))
	return record
}

func (t *table[T, P]) update(ctx context.Context, id int64, patch any) (T, bool) {
	var zero T
	rows := t.load(ctx)
	i := t.find(rows, id)
	if i < 0 {
		t.store.logger.WarnContext(ctx, "Record to update not found", "table", t.key, "id", id)
		return zero, false
	}

	merged, err := mergePatch(rows[i], patch)
	if err != nil {
		t.store.logger.ErrorContext(ctx, "Failed to apply patch", "table", t.key, "id", id, "error", err)
		return rows[i], true
	}
	rows[i] = merged
	_ = t.save(ctx, rows)
	return merged, true
}

func (t *table[T, P]) All(ctx context.Context) []T {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.load(ctx)
}

func (t *table[T, P]) Get(ctx context.Context, id int64) (T, bool) {
	var zero T
	rows := t.All(ctx)
	if i := t.find(rows, id); i >= 0 {
		return rows[i], true
	}
	return zero, false
}

func (t *table[T, P]) Add(ctx context.Context, record T) T {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.add(ctx, record)
}

func (t *table[T, P]) Update(ctx context.Context, id int64, patch P) (T, bool) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.update(ctx, id, patch)
}

func (t *table[T, P]) Delete(ctx context.Context, id int64) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	rows := t.load(ctx)
	i := t.find(rows, id)
	if i < 0 {
		return
	}
	rows = append(rows[:i], rows[i+1:]...)
	_ = t.save(ctx, rows)
	t.store.logger.InfoContext(ctx, "Record deleted", "table", t.key, "id", id)
}

// first returns the first record matching pred, in storage order
func (t *table[T, P]) first(ctx context.Context, pred func(T) bool) (T, bool) {
	var zero T
	for _, row := range t.All(ctx) {
		if pred(row) {
			return row, true
		}
	}
	return zero, false
}

// mergePatch overlays the JSON fields present in patch onto record. The "id" field is never
// taken from the patch. Fields absent from the patch keep their stored encoding.
func mergePatch[T any](record T, patch any) (T, error) {
	var merged T

	fields, err := jsonFields(record)
	if err != nil {
		return merged, err
	}
	overlay, err := jsonFields(patch)
	if err != nil {
		return merged, err
	}
	delete(overlay, "id")
	maps.Copy(fields, overlay)

	raw, err := json.Marshal(fields)
	if err != nil {
		return merged, err
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return merged, err
	}
	return merged, nil
}

func jsonFields(v any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}
