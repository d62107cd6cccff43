package cursor_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"bling-sync/core/cursor"
	"bling-sync/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCursorTransitions(t *testing.T) {
	start := day(2024, 1, 31)
	c := cursor.New("venda", &start)

	assert.Equal(t, 1, c.Page)
	assert.Equal(t, cursor.NoIndex, c.LastProcessedIndex)
	assert.Equal(t, 0, c.StartIndex())

	c.Advance()
	c.Advance()
	assert.Equal(t, int16(1), c.LastProcessedIndex)
	assert.Equal(t, 2, c.StartIndex())

	c.NextPage()
	assert.Equal(t, 2, c.Page)
	assert.Equal(t, cursor.NoIndex, c.LastProcessedIndex)

	c.Advance()
	c.Rollover()
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, cursor.NoIndex, c.LastProcessedIndex)
	assert.Equal(t, day(2024, 2, 1), *c.WindowDate)
}

func TestCursorCaughtUp(t *testing.T) {
	start := day(2024, 3, 9)
	c := cursor.New("nfe-saida", &start)

	assert.False(t, c.CaughtUp(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)))
	assert.True(t, c.CaughtUp(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)))
	assert.True(t, cursor.New("produto", nil).CaughtUp(time.Now()))
}

func newSQLite(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &cursor.ImportCursor{}))
	return db
}

func TestGormStore(t *testing.T) {
	ctx := context.Background()
	store := cursor.NewStore(newSQLite(t))
	start := day(2024, 1, 1)

	_, err := store.Get(ctx, "venda")
	assert.ErrorIs(t, err, cursor.ErrNotFound)

	c, err := store.LoadOrCreate(ctx, "venda", &start)
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	c.Page = 3
	c.LastProcessedIndex = 40
	require.NoError(t, store.Save(ctx, c))

	// A second load returns the persisted row instead of creating a new one.
	again, err := store.LoadOrCreate(ctx, "venda", &start)
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, 3, again.Page)
	assert.Equal(t, int16(40), again.LastProcessedIndex)

	_, err = store.LoadOrCreate(ctx, "produto", nil)
	require.NoError(t, err)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "produto", all[0].EntityKind)

	reset := day(2024, 6, 1)
	r, err := store.Reset(ctx, "venda", &reset)
	require.NoError(t, err)
	assert.Equal(t, c.ID, r.ID)
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, cursor.NoIndex, r.LastProcessedIndex)

	got, err := store.Get(ctx, "venda")
	require.NoError(t, err)
	require.NotNil(t, got.WindowDate)
	assert.Equal(t, "2024-06-01", got.WindowDate.Format("2006-01-02"))
}

func TestGormStore_SaveError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `controle_importacao`")).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = cursor.NewStore(db).Save(context.Background(), &cursor.ImportCursor{ID: 7, EntityKind: "venda", Page: 2})
	assert.ErrorContains(t, err, "save cursor venda")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetQuery(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "tabela", "pagina", "ultimo_index_processado", "data"}).
		AddRow(1, "conta_pagar", 4, 17, day(2024, 2, 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `controle_importacao` WHERE tabela = ?")).
		WithArgs("conta_pagar", 1).
		WillReturnRows(rows)

	c, err := cursor.NewStore(db).Get(context.Background(), "conta_pagar")
	require.NoError(t, err)
	assert.Equal(t, 4, c.Page)
	assert.Equal(t, int16(17), c.LastProcessedIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}
