package postRepository

import (
	"SmileApp/internal/api/post"
	"SmileApp/internal/entity"
	contextPkg "SmileApp/pkg/context"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"time"
)

type PostDB struct {
	ID         sql.NullString `db:"id"`
	Username   sql.NullString `db:"username"`
	UserImage  sql.NullString `db:"user_image"`
	ImageURL   sql.NullString `db:"image_url"`
	Caption    sql.NullString `db:"caption"`
	Likes      sql.NullInt64  `db:"likes"`
	SmileScore sql.NullInt64  `db:"smile_score"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r *postsRepository) CreatePost(ctx context.Context, post entity.Post) (entity.Post, error) {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":          post.ID,
		"username":    post.Username,
		"user_image":  post.UserImage,
		"image_url":   post.ImageURL,
		"caption":     post.Caption,
		"likes":       post.Likes,
		"smile_score": post.SmileScore,
	}

	query, args, err := sqlx.Named(queryCreatePost, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreatePost")
		return entity.Post{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&post.CreatedAt); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating post")
		return entity.Post{}, err
	}

	return post, nil
}

func (r *postsRepository) GetPostByID(ctx context.Context, id string) (entity.Post, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var post PostDB

	query, args, err := sqlx.Named(queryGetPostByID, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPostByID named query preparation err")
		return entity.Post{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&post); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("GetPostByID no rows found")
			return entity.Post{}, posts.ErrPostNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPostByID execution err")
		return entity.Post{}, err
	}

	return r.makePost(post), nil
}

func (r *postsRepository) GetAllPosts(ctx context.Context) ([]entity.Post, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []PostDB

	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(queryGetAllPosts)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllPosts execution err")
		return nil, err
	}

	result := make([]entity.Post, 0, len(rows))
	for _, row := range rows {
		result = append(result, r.makePost(row))
	}

	return result, nil
}

func (r *postsRepository) makePost(post PostDB) entity.Post {
	return entity.Post{
		ID:         post.ID.String,
		Username:   post.Username.String,
		UserImage:  post.UserImage.String,
		ImageURL:   post.ImageURL.String,
		Caption:    post.Caption.String,
		Likes:      int(post.Likes.Int64),
		SmileScore: int(post.SmileScore.Int64),
		CreatedAt:  post.CreatedAt,
	}
}
