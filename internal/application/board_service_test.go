package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
)

func newBoardService() (*BoardService, *fakeBoardTable) {
	boards := newFakeBoardTable()
	return NewBoardService(boards, nil, nil, "", nil, ""), boards
}

func TestBoardService_CreateAndGet(t *testing.T) {
	svc, _ := newBoardService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateBoardInput{Title: "hello", Content: "world"})
	require.NoError(t, err)
	require.Equal(t, int64(1), b.ID)
	require.Equal(t, int64(1), b.OwnerID, "creator becomes the owner")

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", got.Title)
}

func TestBoardService_Get_Missing(t *testing.T) {
	svc, _ := newBoardService()
	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBoardService_List_NewestFirst(t *testing.T) {
	svc, _ := newBoardService()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, 1, CreateBoardInput{Title: title, Content: "c"})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "third", all[0].Title)
	require.Equal(t, "first", all[2].Title)
}

func TestBoardService_Update_AsOwner(t *testing.T) {
	svc, boards := newBoardService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateBoardInput{Title: "a", Content: "x"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, b.ID, UpdateBoardInput{Title: "b", Content: "x"})
	require.NoError(t, err)
	require.Equal(t, "b", updated.Title)
	require.Equal(t, "x", updated.Content)

	// content was unchanged, so only the title column is flushed
	require.Equal(t, []map[string]any{{"title": "b"}}, boards.updates)
}

func TestBoardService_Update_IdenticalValuesNoStatement(t *testing.T) {
	svc, boards := newBoardService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateBoardInput{Title: "a", Content: "x"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, 1, b.ID, UpdateBoardInput{Title: "a", Content: "x"})
	require.NoError(t, err)
	require.Empty(t, boards.updates)
}

func TestBoardService_Update_AsOtherUser(t *testing.T) {
	svc, boards := newBoardService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateBoardInput{Title: "a", Content: "x"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, 2, b.ID, UpdateBoardInput{Title: "hacked", Content: "hacked"})
	require.ErrorIs(t, err, apperr.ErrForbidden)

	// stored state is untouched
	require.Empty(t, boards.updates)
	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "a", got.Title)
	require.Equal(t, "x", got.Content)
}

func TestBoardService_Update_Missing(t *testing.T) {
	svc, _ := newBoardService()
	_, err := svc.Update(context.Background(), 1, 42, UpdateBoardInput{Title: "b", Content: "y"})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBoardService_Delete_AsOwner(t *testing.T) {
	svc, _ := newBoardService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateBoardInput{Title: "a", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, b.ID))
	_, err = svc.Get(ctx, b.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBoardService_Delete_AsOtherUser(t *testing.T) {
	svc, _ := newBoardService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateBoardInput{Title: "a", Content: "x"})
	require.NoError(t, err)

	err = svc.Delete(ctx, 2, b.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Get(ctx, b.ID)
	require.NoError(t, err, "board survives a forbidden delete")
}

func TestBoardService_Delete_Missing(t *testing.T) {
	svc, _ := newBoardService()
	err := svc.Delete(context.Background(), 1, 42)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBoardService_Search_WithoutES(t *testing.T) {
	svc, _ := newBoardService()
	hits, err := svc.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestBoardService_Search_EmptyQuery(t *testing.T) {
	svc, _ := newBoardService()
	_, err := svc.Search(context.Background(), "   ", 10)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBoard_IsOwner(t *testing.T) {
	b := entity.Board{ID: 1, OwnerID: 7}
	require.True(t, b.IsOwner(7))
	require.False(t, b.IsOwner(8))
}
