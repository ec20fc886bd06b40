package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"

	"github.com/lib/pq"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, club_id, title, content, tags, images, like_count, is_active, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*domain.Post, error) {
	p := &domain.Post{}
	err := row.Scan(
		&p.ID, &p.ClubID, &p.Title, &p.Content, pq.Array(&p.Tags), pq.Array(&p.Images),
		&p.LikeCount, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postRepository) Create(ctx context.Context, p *domain.Post) error {
	query := `INSERT INTO posts (club_id, title, content, tags, images, like_count, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, 0, true, $6, $6) RETURNING id`
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.IsActive = true
	return r.db.QueryRowContext(ctx, query,
		p.ClubID, p.Title, p.Content, pq.Array(p.Tags), pq.Array(p.Images), now,
	).Scan(&p.ID)
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND is_active = true`
	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

func (r *postRepository) List(ctx context.Context, f repository.PostFilter) ([]domain.Post, int32, error) {
	where := `is_active = true`
	args := []any{}
	n := 0
	arg := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if f.ClubID != 0 {
		where += ` AND club_id = ` + arg(f.ClubID)
	}

	order := `created_at DESC`
	switch f.SortBy {
	case "oldest":
		order = `created_at ASC`
	case "popular":
		order = `like_count DESC, created_at DESC`
	}

	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE ` + where + ` ORDER BY ` + order
	if f.Limit > 0 {
		query += ` LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

func (r *postRepository) ListDeletedByClub(ctx context.Context, clubID int64) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
	          WHERE club_id = $1 AND is_active = false ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, p *domain.Post) error {
	query := `UPDATE posts SET title=$1, content=$2, tags=$3, images=$4, is_active=$5, updated_at=$6 WHERE id=$7`
	p.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		p.Title, p.Content, pq.Array(p.Tags), pq.Array(p.Images), p.IsActive, p.UpdatedAt, p.ID,
	)
	return err
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET is_active = false, updated_at = $1 WHERE id = $2`, time.Now(), id)
	return err
}

func (r *postRepository) HardDelete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1`, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

// AddLike inserts the like and bumps the counter only when the user has not
// liked the post before. Returns false on a duplicate like.
func (r *postRepository) AddLike(ctx context.Context, postID, userID int64, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE posts SET like_count = like_count + 1 WHERE id = $1`, postID)
	return true, err
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE posts SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1`, postID)
	return true, err
}

func (r *postRepository) HasLiked(ctx context.Context, postID, userID int64) (bool, error) {
	var liked bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`,
		postID, userID).Scan(&liked)
	return liked, err
}
