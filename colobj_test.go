package colobj_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj"
)

type particle struct {
	ID     uint64
	Name   string
	Energy float64
	Hits   []int32
}

func newParticleModel(t *testing.T) *colobj.Model {
	t.Helper()
	model := colobj.NewModel()
	name, err := model.RegisterStruct(particle{})
	require.NoError(t, err)
	_, err = model.MakeField("particle", name)
	require.NoError(t, err)
	return model
}

func particleEntry(i uint64) map[string]any {
	return map[string]any{
		"ID":     i,
		"Name":   "p",
		"Energy": float64(i) * 0.5,
		"Hits":   []any{int32(i), int32(i + 1)},
	}
}

func fillParticles(t *testing.T, model *colobj.Model, n uint64, optFns ...colobj.Option) *colobj.Writer {
	t.Helper()
	ctx := context.Background()
	w, err := colobj.NewWriter(model, optFns...)
	require.NoError(t, err)

	e := model.NewEntry()
	defer e.Destroy()
	for i := uint64(0); i < n; i++ {
		require.NoError(t, e.Set("particle", particleEntry(i)))
		_, err := w.Fill(ctx, e)
		require.NoError(t, err)
	}
	return w
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	model := newParticleModel(t)
	w := fillParticles(t, model, 10)
	store, err := w.Close(ctx)
	require.NoError(t, err)
	assert.True(t, model.Frozen())

	r, err := colobj.NewReader(model, store)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), r.NEntries())

	e := model.NewEntry()
	defer e.Destroy()
	for i := uint64(0); i < 10; i++ {
		require.NoError(t, r.Read(i, e))
		got, err := e.Get("particle")
		require.NoError(t, err)
		assert.Equal(t, particleEntry(i), got)
	}
}

func TestWriterAutoCommitsClusters(t *testing.T) {
	ctx := context.Background()
	model := newParticleModel(t)
	w := fillParticles(t, model, 10, colobj.WithEntriesPerCluster(3))
	store, err := w.Close(ctx)
	require.NoError(t, err)

	// 10 entries at 3 per cluster: 3 full clusters plus the tail.
	assert.Equal(t, 4, store.Descriptor().NClusters())
}

func TestWriterRejectsUseAfterClose(t *testing.T) {
	ctx := context.Background()
	model := newParticleModel(t)
	w := fillParticles(t, model, 1)
	_, err := w.Close(ctx)
	require.NoError(t, err)

	e := model.NewEntry()
	defer e.Destroy()
	_, err = w.Fill(ctx, e)
	require.ErrorIs(t, err, colobj.ErrWriterClosed)
}

func TestModelFreezesOnWriter(t *testing.T) {
	model := newParticleModel(t)
	_, err := colobj.NewWriter(model)
	require.NoError(t, err)

	_, err = model.MakeField("late", "int32")
	require.ErrorIs(t, err, colobj.ErrFrozen)
	_, err = model.RegisterStruct(particle{})
	require.ErrorIs(t, err, colobj.ErrFrozen)
}

func TestDuplicateTopLevelField(t *testing.T) {
	model := colobj.NewModel()
	_, err := model.MakeField("x", "int32")
	require.NoError(t, err)
	_, err = model.MakeField("x", "float64")
	require.ErrorIs(t, err, colobj.ErrDuplicateField)
}

func TestForeignEntryRejected(t *testing.T) {
	ctx := context.Background()
	model := newParticleModel(t)
	other := newParticleModel(t)

	w, err := colobj.NewWriter(model)
	require.NoError(t, err)
	e := other.NewEntry()
	defer e.Destroy()
	_, err = w.Fill(ctx, e)
	require.ErrorIs(t, err, colobj.ErrForeignEntry)
}

func TestPersistAndOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "particles.db")

	model := newParticleModel(t)
	w := fillParticles(t, model, 6, colobj.WithPersistPath(path), colobj.WithEntriesPerCluster(4))
	_, err := w.Close(ctx)
	require.NoError(t, err)

	// A separate process would build the model from the same declarations.
	fresh := newParticleModel(t)
	r, err := colobj.Open(fresh, path)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), r.NEntries())

	e := fresh.NewEntry()
	defer e.Destroy()
	require.NoError(t, r.Read(5, e))
	got, err := e.Get("particle")
	require.NoError(t, err)
	assert.Equal(t, particleEntry(5), got)
}

func TestScanRange(t *testing.T) {
	ctx := context.Background()
	model := newParticleModel(t)
	w := fillParticles(t, model, 20, colobj.WithEntriesPerCluster(6))
	store, err := w.Close(ctx)
	require.NoError(t, err)

	r, err := colobj.NewReader(model, store)
	require.NoError(t, err)

	var mu sync.Mutex
	seen := make(map[uint64]float64)
	err = r.ScanRange(ctx, 3, 17, func(i uint64, e *colobj.Entry) error {
		got, err := e.Get("particle")
		if err != nil {
			return err
		}
		mu.Lock()
		seen[i] = got.(map[string]any)["Energy"].(float64)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	require.Len(t, seen, 14)
	for i := uint64(3); i < 17; i++ {
		assert.Equal(t, float64(i)*0.5, seen[i])
	}
}

func TestScanRangeEmpty(t *testing.T) {
	ctx := context.Background()
	model := newParticleModel(t)
	w := fillParticles(t, model, 5)
	store, err := w.Close(ctx)
	require.NoError(t, err)

	r, err := colobj.NewReader(model, store)
	require.NoError(t, err)
	err = r.ScanRange(ctx, 4, 4, func(uint64, *colobj.Entry) error {
		t.Fatal("callback must not run for an empty range")
		return nil
	})
	require.NoError(t, err)
}
