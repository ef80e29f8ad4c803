package prompts_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/promptbase/internal/prompts"
	"github.com/JaimeStill/promptbase/internal/schema"
	"github.com/JaimeStill/promptbase/pkg/database"
	"github.com/JaimeStill/promptbase/pkg/handlers"
	"github.com/JaimeStill/promptbase/pkg/pagination"
	"github.com/JaimeStill/promptbase/pkg/query"
)

// stepClock advances by one second on every reading.
type stepClock struct {
	next time.Time
}

func (c *stepClock) Now() time.Time {
	now := c.next
	c.next = c.next.Add(time.Second)
	return now
}

func newStore(t *testing.T) (prompts.System, *sql.DB, *stepClock) {
	t.Helper()

	cfg := database.Config{URL: "sqlite://:memory:"}
	require.NoError(t, cfg.Finalize(nil))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys, err := database.New(&cfg, logger)
	require.NoError(t, err)

	db := sys.Connection()
	t.Cleanup(func() { db.Close() })

	require.NoError(t, schema.Provision(context.Background(), db, sys.Dialect(), logger))

	clock := &stepClock{next: time.Date(2026, 5, 1, 9, 0, 0, 123456789, time.UTC)}
	store := prompts.New(
		db,
		query.SQLite,
		logger,
		pagination.Config{DefaultPageSize: 2, MaxPageSize: 10},
		prompts.WithClock(clock.Now),
	)
	return store, db, clock
}

func mustCreate(t *testing.T, store prompts.System, title, body string, favorite bool) *prompts.Prompt {
	t.Helper()
	p, err := store.Create(context.Background(), prompts.CreateCommand{
		Title:      title,
		Prompt:     body,
		IsFavorite: favorite,
	})
	require.NoError(t, err)
	return p
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM prompts`).Scan(&n))
	return n
}

func ids(list []prompts.Prompt) []int64 {
	out := make([]int64, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestCreateThenListReturnsNewestFirst(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	mustCreate(t, store, "Older", "first body", false)

	created, err := store.Create(ctx, prompts.CreateCommand{
		Title:      "Greeting",
		Prompt:     "Write a greeting",
		Template:   "Hello {name}",
		IsFavorite: true,
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
	assert.Equal(t, 0, created.CreatedAt.Nanosecond()%1000, "timestamps are stored at microsecond precision")

	list, err := store.List(ctx, prompts.Filters{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, "Greeting", first.Title)
	assert.Equal(t, "Write a greeting", first.Prompt)
	assert.Equal(t, "Hello {name}", first.Template)
	assert.True(t, first.IsFavorite)
	assert.True(t, first.CreatedAt.Equal(created.CreatedAt))
}

func TestCreateValidationNeverInserts(t *testing.T) {
	store, db, _ := newStore(t)
	ctx := context.Background()

	for _, cmd := range []prompts.CreateCommand{
		{Title: "", Prompt: "body"},
		{Title: "title", Prompt: ""},
		{Title: "  ", Prompt: "body"},
	} {
		_, err := store.Create(ctx, cmd)
		assert.ErrorIs(t, err, prompts.ErrValidation)
	}

	assert.Equal(t, 0, countRows(t, db))
}

func TestUpdateRefreshesUpdatedAtOnly(t *testing.T) {
	store, _, clock := newStore(t)
	ctx := context.Background()

	original := mustCreate(t, store, "Draft", "body", false)
	updateAt := clock.next.UTC().Truncate(time.Microsecond)

	updated, err := store.Update(ctx, original.ID, prompts.UpdateCommand{
		Title:      "Final",
		Prompt:     "new body",
		Template:   "{x}",
		IsFavorite: true,
	})
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "new body", updated.Prompt)
	assert.Equal(t, "{x}", updated.Template)
	assert.True(t, updated.IsFavorite)

	assert.True(t, updated.CreatedAt.Equal(original.CreatedAt), "created_at must not change")
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt), "updated_at must increase")
	assert.True(t, updated.UpdatedAt.Equal(updateAt), "updated_at = %v, want %v", updated.UpdatedAt, updateAt)

	found, err := store.Find(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", found.Title)
}

func TestUpdateValidationAndNotFound(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	p := mustCreate(t, store, "Keep", "body", false)

	_, err := store.Update(ctx, p.ID, prompts.UpdateCommand{Title: "", Prompt: "x"})
	assert.ErrorIs(t, err, prompts.ErrValidation)

	found, err := store.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", found.Title, "failed validation must not write")

	_, err = store.Update(ctx, p.ID+100, prompts.UpdateCommand{Title: "t", Prompt: "p"})
	assert.ErrorIs(t, err, prompts.ErrNotFound)
}

func TestDeleteRemovesExactlyOneRow(t *testing.T) {
	store, db, _ := newStore(t)
	ctx := context.Background()

	keep := mustCreate(t, store, "Keep", "body", false)
	drop := mustCreate(t, store, "Drop", "body", false)

	require.NoError(t, store.Delete(ctx, drop.ID))
	assert.Equal(t, 1, countRows(t, db))

	list, err := store.List(ctx, prompts.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []int64{keep.ID}, ids(list))

	assert.ErrorIs(t, store.Delete(ctx, drop.ID), prompts.ErrNotFound)

	_, err = store.Update(ctx, drop.ID, prompts.UpdateCommand{Title: "t", Prompt: "p"})
	assert.ErrorIs(t, err, prompts.ErrNotFound)

	_, err = store.Find(ctx, drop.ID)
	assert.ErrorIs(t, err, prompts.ErrNotFound)
}

func TestFavoriteFilterPartitions(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	for i, fav := range []bool{true, false, true, false, false} {
		mustCreate(t, store, "prompt", string(rune('a'+i)), fav)
	}

	all, err := store.List(ctx, prompts.Filters{Favorite: prompts.FavoriteFilter(false, false)})
	require.NoError(t, err)
	both, err := store.List(ctx, prompts.Filters{Favorite: prompts.FavoriteFilter(true, true)})
	require.NoError(t, err)
	favorites, err := store.List(ctx, prompts.Filters{Favorite: prompts.FavoriteFilter(true, false)})
	require.NoError(t, err)
	others, err := store.List(ctx, prompts.Filters{Favorite: prompts.FavoriteFilter(false, true)})
	require.NoError(t, err)

	assert.Len(t, all, 5)
	assert.Equal(t, ids(all), ids(both))

	for _, p := range favorites {
		assert.True(t, p.IsFavorite)
	}
	for _, p := range others {
		assert.False(t, p.IsFavorite)
	}

	assert.Len(t, favorites, 2)
	assert.Len(t, others, 3)
	assert.ElementsMatch(t, ids(all), append(ids(favorites), ids(others)...))
}

func TestSearchIsLiteralSubstring(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	inTitle := mustCreate(t, store, "xabcx", "body", false)
	inBody := mustCreate(t, store, "title", "the abc body", true)
	mustCreate(t, store, "ABC upper", "no match here", false)
	mustCreate(t, store, "50% off", "a_b", false)

	search := func(term string, favorite *bool) []int64 {
		t.Helper()
		list, err := store.List(ctx, prompts.Filters{Search: &term, Favorite: favorite})
		require.NoError(t, err)
		return ids(list)
	}

	assert.Equal(t, []int64{inBody.ID, inTitle.ID}, search("abc", nil))
	assert.Len(t, search("%", nil), 1, "percent is literal, not a wildcard")
	assert.Len(t, search("_", nil), 1, "underscore is literal, not a wildcard")

	yes := true
	assert.Equal(t, []int64{inBody.ID}, search("abc", &yes), "search and favorite filter compose")
}

func TestSearchInjectionIsLiteral(t *testing.T) {
	store, db, _ := newStore(t)
	ctx := context.Background()

	mustCreate(t, store, "safe", "body", false)
	hostile := mustCreate(t, store, "quote", "x'; DROP TABLE prompts; --y", false)

	term := "'; DROP TABLE prompts; --"
	list, err := store.List(ctx, prompts.Filters{Search: &term})
	require.NoError(t, err)

	assert.Equal(t, []int64{hostile.ID}, ids(list))
	assert.Equal(t, 2, countRows(t, db), "table and rows must be intact")
}

func TestListOrdersByCreatedAtDescending(t *testing.T) {
	store, _, _ := newStore(t)

	for range 5 {
		mustCreate(t, store, "t", "p", false)
	}

	list, err := store.List(context.Background(), prompts.Filters{})
	require.NoError(t, err)
	require.Len(t, list, 5)

	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].CreatedAt.After(list[i].CreatedAt),
			"entry %d (%v) must be newer than entry %d (%v)", i-1, list[i-1].CreatedAt, i, list[i].CreatedAt)
	}
}

func TestSetFavorite(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	p := mustCreate(t, store, "t", "p", false)

	fav, err := store.SetFavorite(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)
	assert.True(t, fav.UpdatedAt.After(p.UpdatedAt))
	assert.Equal(t, p.Title, fav.Title)

	unfav, err := store.SetFavorite(ctx, p.ID, false)
	require.NoError(t, err)
	assert.False(t, unfav.IsFavorite)

	_, err = store.SetFavorite(ctx, p.ID+1, true)
	assert.ErrorIs(t, err, prompts.ErrNotFound)
}

func TestPage(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	var created []int64
	for i := range 5 {
		created = append(created, mustCreate(t, store, "t", "p", i%2 == 0).ID)
	}

	first, err := store.Page(ctx, pagination.PageRequest{}, prompts.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 5, first.Total)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, []int64{created[4], created[3]}, ids(first.Data))

	last, err := store.Page(ctx, pagination.PageRequest{Page: 3, PageSize: 2}, prompts.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []int64{created[0]}, ids(last.Data))

	ascending, err := store.Page(ctx, pagination.PageRequest{
		PageSize: 10,
		Sort:     pagination.SortFields{{Field: "id"}, {Field: "no_such_column"}},
	}, prompts.Filters{})
	require.NoError(t, err)
	assert.Equal(t, created, ids(ascending.Data))

	yes := true
	favorites, err := store.Page(ctx, pagination.PageRequest{PageSize: 10}, prompts.Filters{Favorite: &yes})
	require.NoError(t, err)
	assert.Equal(t, 3, favorites.Total)
}

func TestHandlerHidesDatastoreFailure(t *testing.T) {
	store, db, _ := newStore(t)
	_, err := db.Exec(`DROP TABLE prompts`)
	require.NoError(t, err)

	mux := setupMux(store.Handler())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/prompts", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"`+handlers.MsgInternal+`"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "no such table")
}
