package reconcile_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bling-sync/core/database"
	"bling-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type doc struct {
	ID         uint   `gorm:"primaryKey"`
	IDOriginal string `gorm:"size:50;uniqueIndex"`
	Number     string `gorm:"size:30;uniqueIndex"`
	Name       string
	Lines      []docLine `gorm:"foreignKey:DocID;constraint:OnDelete:CASCADE"`
}

type docLine struct {
	ID    uint `gorm:"primaryKey"`
	DocID uint
	Value string
}

type docAdapter struct {
	remote      map[string]doc
	fetchCalls  atomic.Int32
	persists    atomic.Int32
	staleLookup atomic.Int32
	gate        chan struct{}
	persistErr  func(calls int32) error
}

func (a *docAdapter) Kind() string                { return "doc" }
func (a *docAdapter) OriginalID(d *doc) string    { return d.IDOriginal }
func (a *docAdapter) AdoptID(dst, existing *doc)  { dst.ID = existing.ID }

func (a *docAdapter) FindByOriginal(ctx context.Context, tx *gorm.DB, id string) (*doc, error) {
	if a.staleLookup.Load() > 0 {
		a.staleLookup.Add(-1)
		return nil, nil
	}
	return first(tx.Preload("Lines").Where("id_original = ?", id))
}

func (a *docAdapter) FindByNaturalKey(ctx context.Context, tx *gorm.DB, d *doc) (*doc, error) {
	if d.Number == "" {
		return nil, nil
	}
	return first(tx.Preload("Lines").Where("number = ?", d.Number))
}

func first(q *gorm.DB) (*doc, error) {
	var d doc
	err := q.First(&d).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (a *docAdapter) Fetch(ctx context.Context, id string) (*doc, error) {
	a.fetchCalls.Add(1)
	if a.gate != nil {
		<-a.gate
	}
	d, ok := a.remote[id]
	if !ok {
		return nil, errors.New("not found upstream")
	}
	// Each fetch maps into fresh memory, like decoding a payload.
	out := d
	out.Lines = append([]docLine(nil), d.Lines...)
	return &out, nil
}

func (a *docAdapter) Persist(ctx context.Context, tx *gorm.DB, d *doc) error {
	calls := a.persists.Add(1)
	if a.persistErr != nil {
		if err := a.persistErr(calls); err != nil {
			return err
		}
	}
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(d).Error
}

func (a *docAdapter) ResetChildren(ctx context.Context, tx *gorm.DB, existing, d *doc) error {
	if err := tx.Where("doc_id = ?", existing.ID).Delete(&docLine{}).Error; err != nil {
		return err
	}
	for i := range d.Lines {
		d.Lines[i].ID = 0
		d.Lines[i].DocID = 0
	}
	return nil
}

func setup(t *testing.T, remote map[string]doc) (*gorm.DB, *docAdapter, *reconcile.Resolver[doc]) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &doc{}, &docLine{}))
	adapter := &docAdapter{remote: remote}
	return db, adapter, reconcile.NewResolver[doc](db, adapter, nil)
}

func count(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	var n int64
	require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func TestResolve_CreatesOnceAndReuses(t *testing.T) {
	ctx := context.Background()
	db, adapter, r := setup(t, map[string]doc{
		"10": {IDOriginal: "10", Number: "N10", Name: "first", Lines: []docLine{{Value: "a"}}},
	})

	got, err := r.Resolve(ctx, "10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotZero(t, got.ID)

	again, err := r.Resolve(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)
	assert.Equal(t, int32(1), adapter.fetchCalls.Load())
	assert.Equal(t, int64(1), count(t, db, &doc{}, "id_original = ?", "10"))

	stats := r.Stats()
	assert.Equal(t, int64(1), stats.Created)
	assert.Equal(t, int64(1), stats.Fetched)
}

func TestResolve_BlankIDs(t *testing.T) {
	_, adapter, r := setup(t, nil)
	for _, id := range []string{"", " ", "0"} {
		got, err := r.Resolve(context.Background(), id)
		assert.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, int32(0), adapter.fetchCalls.Load())
}

func TestRefresh_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	remote := map[string]doc{
		"20": {IDOriginal: "20", Number: "N20", Name: "v1", Lines: []docLine{{Value: "a"}, {Value: "b"}}},
	}
	db, _, r := setup(t, remote)

	for i := 0; i < 3; i++ {
		_, err := r.Refresh(ctx, "20")
		require.NoError(t, err)
	}

	remote["20"] = doc{IDOriginal: "20", Number: "N20", Name: "v2", Lines: []docLine{{Value: "c"}}}
	got, err := r.Refresh(ctx, "20")
	require.NoError(t, err)

	assert.Equal(t, int64(1), count(t, db, &doc{}, "id_original = ?", "20"))
	assert.Equal(t, int64(1), count(t, db, &docLine{}, "doc_id = ?", got.ID))

	var stored doc
	require.NoError(t, db.First(&stored, got.ID).Error)
	assert.Equal(t, "v2", stored.Name)
	assert.Equal(t, int64(3), r.Stats().Updated)
}

func TestSave_ConflictOnNaturalKey(t *testing.T) {
	ctx := context.Background()
	db, _, r := setup(t, map[string]doc{
		"B": {IDOriginal: "B", Number: "N1", Name: "from erp", Lines: []docLine{{Value: "new"}}},
	})

	seed := doc{IDOriginal: "A", Number: "N1", Name: "legacy", Lines: []docLine{{Value: "old"}, {Value: "old2"}}}
	require.NoError(t, db.Create(&seed).Error)

	got, err := r.Resolve(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, seed.ID, got.ID)

	assert.Equal(t, int64(1), count(t, db, &doc{}, "number = ?", "N1"))
	assert.Equal(t, int64(1), count(t, db, &doc{}, "id_original = ?", "B"))
	assert.Equal(t, int64(1), count(t, db, &docLine{}, "doc_id = ?", seed.ID))
	assert.Equal(t, int64(1), r.Stats().Conflicts)
}

func TestSave_ConflictOnOriginalID(t *testing.T) {
	ctx := context.Background()
	db, adapter, r := setup(t, nil)

	seed := doc{IDOriginal: "X", Number: "NX", Name: "other writer", Lines: []docLine{{Value: "o1"}, {Value: "o2"}}}
	require.NoError(t, db.Create(&seed).Error)

	// The first lookup misses, as if the other writer committed right after it.
	adapter.staleLookup.Store(1)
	entity := &doc{IDOriginal: "X", Number: "NX", Name: "ours", Lines: []docLine{{Value: "n1"}}}
	require.NoError(t, r.Save(ctx, entity))

	assert.Equal(t, seed.ID, entity.ID)
	assert.Equal(t, int64(1), count(t, db, &doc{}, "id_original = ?", "X"))
	assert.Equal(t, int64(1), count(t, db, &docLine{}, "doc_id = ?", seed.ID))
	assert.Equal(t, int32(2), adapter.persists.Load())
}

func TestSave_RetriesOnlyOnce(t *testing.T) {
	ctx := context.Background()
	db, adapter, r := setup(t, nil)
	require.NoError(t, db.Create(&doc{IDOriginal: "Y", Number: "NY"}).Error)

	adapter.staleLookup.Store(1)
	adapter.persistErr = func(int32) error { return gorm.ErrDuplicatedKey }

	err := r.Save(ctx, &doc{IDOriginal: "Y", Number: "NY"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, int32(2), adapter.persists.Load())
}

func TestSave_OtherErrorsUnmodified(t *testing.T) {
	_, adapter, r := setup(t, nil)
	boom := errors.New("disk full")
	adapter.persistErr = func(int32) error { return boom }

	err := r.Save(context.Background(), &doc{IDOriginal: "Z"})
	assert.Equal(t, boom, err)
	assert.Equal(t, int32(1), adapter.persists.Load())
}

func TestResolve_FetchError(t *testing.T) {
	_, _, r := setup(t, map[string]doc{})
	_, err := r.Resolve(context.Background(), "404")
	assert.ErrorContains(t, err, "doc 404: fetch: not found upstream")
}

func TestResolve_ConcurrentCallersShareFetch(t *testing.T) {
	ctx := context.Background()
	db, adapter, r := setup(t, map[string]doc{
		"7": {IDOriginal: "7", Number: "N7"},
	})
	adapter.gate = make(chan struct{})

	var wg sync.WaitGroup
	ids := make([]uint, 5)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := r.Resolve(ctx, "7")
			if assert.NoError(t, err) {
				ids[i] = got.ID
			}
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(adapter.gate)
	wg.Wait()

	assert.Equal(t, int32(1), adapter.fetchCalls.Load())
	assert.Equal(t, int64(1), count(t, db, &doc{}, "id_original = ?", "7"))
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}
