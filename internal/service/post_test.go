package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"
)

func activePost() *domain.Post {
	return &domain.Post{
		ID: 300, ClubID: testClubID, Title: "Tournament Results",
		Content: "Congratulations to all participants.", LikeCount: 4, IsActive: true,
	}
}

func TestPostLike(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, int64(300)).Return(activePost(), nil)
	postRepo.On("AddLike", ctx, int64(300), testMemberID, mock.AnythingOfType("time.Time")).Return(true, nil)

	count, err := svc.Like(ctx, 300, testMemberID)
	require.NoError(t, err)
	assert.Equal(t, int32(5), count)
}

func TestPostLike_Twice(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, int64(300)).Return(activePost(), nil)
	// The insert hit the uniqueness guard: the user had already liked.
	postRepo.On("AddLike", ctx, int64(300), testMemberID, mock.Anything).Return(false, nil)

	count, err := svc.Like(ctx, 300, testMemberID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
	assert.Equal(t, int32(4), count, "count is unchanged on a duplicate like")
}

func TestPostUnlike(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, int64(300)).Return(activePost(), nil)
	postRepo.On("RemoveLike", ctx, int64(300), testMemberID).Return(true, nil)

	count, err := svc.Unlike(ctx, 300, testMemberID)
	require.NoError(t, err)
	assert.Equal(t, int32(3), count)
}

func TestPostUnlike_NotLiked(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, int64(300)).Return(activePost(), nil)
	postRepo.On("RemoveLike", ctx, int64(300), testMemberID).Return(false, nil)

	_, err := svc.Unlike(ctx, 300, testMemberID)
	assert.ErrorIs(t, err, ErrNotLiked)
}

func TestPostGet_DecoratesIsLiked(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, int64(300)).Return(activePost(), nil)
	postRepo.On("HasLiked", ctx, int64(300), testMemberID).Return(true, nil)

	post, err := svc.Get(ctx, 300, testMemberID)
	require.NoError(t, err)
	assert.True(t, post.IsLiked)
}

func TestPostGet_AnonymousSkipsLikeLookup(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, int64(300)).Return(activePost(), nil)

	post, err := svc.Get(ctx, 300, 0)
	require.NoError(t, err)
	assert.False(t, post.IsLiked)
	postRepo.AssertNotCalled(t, "HasLiked", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostList_DecoratesPerUser(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	posts := []domain.Post{*activePost(), {ID: 301, ClubID: testClubID, IsActive: true}}
	postRepo.On("List", ctx, repository.PostFilter{ClubID: testClubID, SortBy: "popular", Limit: 20, Offset: 0}).
		Return(posts, int32(2), nil)
	postRepo.On("HasLiked", ctx, int64(300), testMemberID).Return(true, nil)
	postRepo.On("HasLiked", ctx, int64(301), testMemberID).Return(false, nil)

	got, total, err := svc.List(ctx, testClubID, testMemberID, "popular", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), total)
	assert.True(t, got[0].IsLiked)
	assert.False(t, got[1].IsLiked)
}

func TestPostDelete_WrongClub(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, int64(300)).Return(activePost(), nil)

	err := svc.Delete(ctx, 300, 999)
	assert.ErrorIs(t, err, ErrForbidden)
	postRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPostRestore(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	now := time.Now()
	deleted := []domain.Post{{ID: 300, ClubID: testClubID, IsActive: false, DeletedAt: &now}}
	postRepo.On("ListDeletedByClub", ctx, testClubID).Return(deleted, nil)
	postRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Post) bool {
		return p.ID == 300 && p.IsActive
	})).Return(nil)

	err := svc.Restore(ctx, 300, testClubID)
	require.NoError(t, err)
	postRepo.AssertExpectations(t)
}

func TestPostRestore_NotFound(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	postRepo.On("ListDeletedByClub", ctx, testClubID).Return([]domain.Post{}, nil)

	err := svc.Restore(ctx, 300, testClubID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostGet_Missing(t *testing.T) {
	postRepo := new(MockPostRepo)
	svc := NewPostService(postRepo)
	ctx := context.Background()

	postRepo.On("GetByID", ctx, int64(300)).Return(nil, sql.ErrNoRows)

	_, err := svc.Get(ctx, 300, 0)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
