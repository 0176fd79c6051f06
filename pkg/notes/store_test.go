package notes_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkwell/internal/fakeapi"
	"github.com/aretw0/inkwell/pkg/api"
	"github.com/aretw0/inkwell/pkg/core"
	"github.com/aretw0/inkwell/pkg/notes"
)

// setup registers a user on a fresh backend and returns a store bound to it.
func setup(t *testing.T) (*fakeapi.Server, *notes.Store) {
	t.Helper()
	backend, ts := fakeapi.NewTestServer(t)
	ctx := context.Background()

	anon := api.New(ts.URL)
	_, err := anon.Signup(ctx, "jane", "jane@x.com", "secret1")
	require.NoError(t, err)
	token, err := anon.Login(ctx, "jane@x.com", "secret1")
	require.NoError(t, err)

	client := api.New(ts.URL, api.WithTokenSource(api.StaticToken(token)))
	return backend, notes.NewStore(client)
}

func seed(t *testing.T, backend *fakeapi.Server, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := backend.Seed("jane@x.com", core.Note{Title: title, Color: core.ColorOrange})
		require.NoError(t, err)
	}
}

func titles(list []core.Note) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Title
	}
	return out
}

func TestStore_ListReplacesState(t *testing.T) {
	backend, store := setup(t)
	seed(t, backend, "a", "b")

	assert.False(t, store.Loaded())
	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, titles(list))
	assert.True(t, store.Loaded())
	assert.Equal(t, list, store.Notes())
}

func TestStore_ListFailureKeepsPreviousList(t *testing.T) {
	backend, store := setup(t)
	seed(t, backend, "a", "b")
	ctx := context.Background()

	_, err := store.List(ctx)
	require.NoError(t, err)

	backend.FailNext(http.StatusInternalServerError, "boom")
	_, err = store.List(ctx)
	require.Error(t, err)

	var fe *core.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
	assert.Equal(t, "boom", fe.Message)
	assert.Equal(t, []string{"a", "b"}, titles(store.Notes()))
}

func TestStore_CreateEmptyDraftSendsNothing(t *testing.T) {
	backend, store := setup(t)
	before := backend.Requests()

	_, err := store.Create(context.Background(), core.Draft{Title: "  ", Content: "\n"})
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, "Please add a title or content", err.Error())
	assert.Equal(t, before, backend.Requests())
	assert.Empty(t, store.Notes())
}

func TestStore_CreatePrependsServerRecord(t *testing.T) {
	backend, store := setup(t)
	seed(t, backend, "old")
	ctx := context.Background()
	_, err := store.List(ctx)
	require.NoError(t, err)

	n, err := store.Create(ctx, core.Draft{Title: "  new  ", Content: "body"})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "new", n.Title, "draft is trimmed before sending")
	assert.Equal(t, core.ColorOrange, n.Color)

	list := store.Notes()
	require.Len(t, list, 2)
	assert.Equal(t, n, list[0])
}

func TestStore_UpdateReplacesInPlace(t *testing.T) {
	backend, store := setup(t)
	seed(t, backend, "a", "b", "c")
	ctx := context.Background()
	list, err := store.List(ctx)
	require.NoError(t, err)

	target := list[1]
	d := core.DraftOf(target)
	d.Title = "B"
	d.Color = core.ColorTeal
	updated, err := store.Update(ctx, target.ID, d)
	require.NoError(t, err)

	after := store.Notes()
	assert.Len(t, after, 3)
	assert.Equal(t, []string{"a", "B", "c"}, titles(after))
	assert.Equal(t, updated, after[1])
	assert.Equal(t, core.ColorTeal, after[1].Color)
	assert.NotNil(t, after[1].UpdatedAt)
}

func TestStore_UpdateUnknownIDIsNotInserted(t *testing.T) {
	_, store := setup(t)

	_, err := store.Update(context.Background(), "ffffffffffffffffffffffff", core.Draft{Title: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.True(t, core.IsFetch(err))
	assert.Empty(t, store.Notes())
}

func TestStore_RemoveDropsExactlyOne(t *testing.T) {
	backend, store := setup(t)
	seed(t, backend, "a", "b", "c")
	ctx := context.Background()
	list, err := store.List(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, list[1].ID, core.AlwaysConfirm))
	assert.Equal(t, []string{"a", "c"}, titles(store.Notes()))

	// The server agrees.
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStore_RemoveDeclinedSendsNothing(t *testing.T) {
	backend, store := setup(t)
	seed(t, backend, "a")
	ctx := context.Background()
	list, err := store.List(ctx)
	require.NoError(t, err)
	before := backend.Requests()

	var prompted string
	decline := core.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		prompted = prompt
		return false, nil
	})
	err = store.Remove(ctx, list[0].ID, decline)
	assert.ErrorIs(t, err, core.ErrNotConfirmed)
	assert.Equal(t, "Delete this note?", prompted)
	assert.Equal(t, before, backend.Requests())
	assert.Len(t, store.Notes(), 1)
}

func TestStore_RemoveFailureKeepsList(t *testing.T) {
	backend, store := setup(t)
	seed(t, backend, "a")
	ctx := context.Background()
	list, err := store.List(ctx)
	require.NoError(t, err)

	backend.FailNext(http.StatusBadGateway, "upstream down")
	err = store.Remove(ctx, list[0].ID, core.AlwaysConfirm)
	require.Error(t, err)
	assert.True(t, core.IsFetch(err))
	assert.Len(t, store.Notes(), 1)
}

func TestStore_GetRefreshesInPlace(t *testing.T) {
	backend, store := setup(t)
	seed(t, backend, "a")
	ctx := context.Background()
	list, err := store.List(ctx)
	require.NoError(t, err)

	got, err := store.Get(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, got.ID)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Len(t, store.Notes(), 1)
}

func TestStore_Search(t *testing.T) {
	backend, store := setup(t)
	ctx := context.Background()
	_, err := backend.Seed("jane@x.com", core.Note{Title: "Groceries", Content: "milk, eggs"})
	require.NoError(t, err)
	_, err = backend.Seed("jane@x.com", core.Note{Title: "Ideas", Content: "build a boat", Tag: "Projects"})
	require.NoError(t, err)
	_, err = backend.Seed("jane@x.com", core.Note{Title: "Todo", Content: "call mom"})
	require.NoError(t, err)
	_, err = store.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, store.Notes(), store.Search(""), "empty term returns the whole list in order")
	assert.Equal(t, []string{"Groceries"}, titles(store.Search("MILK")))
	assert.Equal(t, []string{"Ideas"}, titles(store.Search("project")))
	assert.Len(t, store.Search("o"), 3)
	assert.Empty(t, store.Search("zebra"))

	assert.Equal(t, store.Search("A"), store.Search("a"))
	once := store.Search("a")
	assert.Equal(t, once, store.Search("a"), "search is idempotent")
	assert.Len(t, store.Notes(), 3, "search never mutates the list")
}

func TestStore_FilterTag(t *testing.T) {
	backend, store := setup(t)
	ctx := context.Background()
	for _, tag := range []string{"work/q1", "work/q2/draft", "home", ""} {
		_, err := backend.Seed("jane@x.com", core.Note{Title: "t-" + tag, Tag: tag})
		require.NoError(t, err)
	}
	_, err := store.List(ctx)
	require.NoError(t, err)

	got, err := store.FilterTag("work/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"t-work/q1"}, titles(got))

	got, err = store.FilterTag("work/**")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.FilterTag("")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = store.FilterTag("work/[")
	assert.True(t, core.IsValidation(err))
}

// funcBackend lets a test intercept individual calls.
type funcBackend struct {
	notes.Backend
	list   func(ctx context.Context) ([]core.Note, error)
	create func(ctx context.Context, d core.Draft) (core.Note, error)
}

func (f *funcBackend) ListNotes(ctx context.Context) ([]core.Note, error) {
	return f.list(ctx)
}

func (f *funcBackend) CreateNote(ctx context.Context, d core.Draft) (core.Note, error) {
	return f.create(ctx, d)
}

func TestStore_ClosedStoreDropsLateAnswers(t *testing.T) {
	var store *notes.Store
	backend := &funcBackend{
		list: func(context.Context) ([]core.Note, error) {
			store.Close() // the view goes away while the request is in flight
			return []core.Note{{ID: "1", Title: "late"}}, nil
		},
	}
	store = notes.NewStore(backend)

	_, err := store.List(context.Background())
	assert.ErrorIs(t, err, core.ErrDetached)
	assert.Empty(t, store.Notes())
	assert.False(t, store.Loaded())

	state := store.State().(notes.StoreState)
	assert.True(t, state.Closed)
	assert.Equal(t, "notes-store", store.ComponentType())
}

func TestStore_TransportErrorIsFetchError(t *testing.T) {
	backend := &funcBackend{
		list: func(context.Context) ([]core.Note, error) {
			return nil, errors.New("connection refused")
		},
	}
	store := notes.NewStore(backend)

	_, err := store.List(context.Background())
	var fe *core.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.Status)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStore_ResetForgetsList(t *testing.T) {
	backend := &funcBackend{
		list: func(context.Context) ([]core.Note, error) {
			return []core.Note{{ID: "1", Title: "a"}}, nil
		},
	}
	store := notes.NewStore(backend)
	_, err := store.List(context.Background())
	require.NoError(t, err)
	require.True(t, store.Loaded())

	store.Reset()
	assert.False(t, store.Loaded())
	assert.Empty(t, store.Notes())
	assert.Empty(t, store.Search(""))
}

func TestStore_ResetDropsAnswersFromBefore(t *testing.T) {
	var store *notes.Store
	backend := &funcBackend{
		list: func(context.Context) ([]core.Note, error) {
			store.Reset() // the user changes while the request is in flight
			return []core.Note{{ID: "1", Title: "previous user"}}, nil
		},
	}
	store = notes.NewStore(backend)

	got, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1, "the caller still gets its answer")
	assert.Empty(t, store.Notes())
	assert.False(t, store.Loaded())
}
