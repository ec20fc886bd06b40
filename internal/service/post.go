package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"
)

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) Create(ctx context.Context, clubID int64, post *domain.Post) (*domain.Post, error) {
	post.ClubID = clubID
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, postID, userID int64) (*domain.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if userID != 0 {
		liked, err := s.postRepo.HasLiked(ctx, postID, userID)
		if err != nil {
			return nil, err
		}
		post.IsLiked = liked
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, clubID, userID int64, sortBy string, limit, offset int32) ([]domain.Post, int32, error) {
	posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
		ClubID: clubID,
		SortBy: sortBy,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, err
	}

	if userID != 0 {
		for i := range posts {
			liked, err := s.postRepo.HasLiked(ctx, posts[i].ID, userID)
			if err != nil {
				return nil, 0, err
			}
			posts[i].IsLiked = liked
		}
	}
	return posts, total, nil
}

func (s *postService) Update(ctx context.Context, clubID int64, post *domain.Post) (*domain.Post, error) {
	current, err := s.getOwnedPost(ctx, post.ID, clubID)
	if err != nil {
		return nil, err
	}
	current.Title = post.Title
	current.Content = post.Content
	current.Tags = post.Tags
	current.Images = post.Images
	if err := s.postRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *postService) Delete(ctx context.Context, postID, clubID int64) error {
	if _, err := s.getOwnedPost(ctx, postID, clubID); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *postService) Restore(ctx context.Context, postID, clubID int64) error {
	deleted, err := s.postRepo.ListDeletedByClub(ctx, clubID)
	if err != nil {
		return err
	}
	for i := range deleted {
		if deleted[i].ID == postID {
			deleted[i].IsActive = true
			return s.postRepo.Update(ctx, &deleted[i])
		}
	}
	return ErrPostNotFound
}

func (s *postService) HardDelete(ctx context.Context, postID, clubID int64) error {
	deleted, err := s.postRepo.ListDeletedByClub(ctx, clubID)
	if err != nil {
		return err
	}
	for _, p := range deleted {
		if p.ID == postID {
			return s.postRepo.HardDelete(ctx, postID)
		}
	}
	// Still active posts can be purged too, owner permitting.
	if _, err := s.getOwnedPost(ctx, postID, clubID); err != nil {
		return err
	}
	return s.postRepo.HardDelete(ctx, postID)
}

func (s *postService) ListDeleted(ctx context.Context, clubID int64) ([]domain.Post, error) {
	return s.postRepo.ListDeletedByClub(ctx, clubID)
}

func (s *postService) Like(ctx context.Context, postID, userID int64) (int32, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	ok, err := s.postRepo.AddLike(ctx, postID, userID, time.Now())
	if err != nil {
		return 0, err
	}
	if !ok {
		return post.LikeCount, ErrAlreadyLiked
	}
	return post.LikeCount + 1, nil
}

func (s *postService) Unlike(ctx context.Context, postID, userID int64) (int32, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	ok, err := s.postRepo.RemoveLike(ctx, postID, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return post.LikeCount, ErrNotLiked
	}
	if post.LikeCount > 0 {
		return post.LikeCount - 1, nil
	}
	return 0, nil
}

func (s *postService) getPost(ctx context.Context, postID int64) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) getOwnedPost(ctx context.Context, postID, clubID int64) (*domain.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.ClubID != clubID {
		return nil, ErrForbidden
	}
	return post, nil
}
