package postService

import (
	"SmileApp/internal/api/post"
	"SmileApp/internal/entity"
	contextPkg "SmileApp/pkg/context"
	"SmileApp/pkg/imaging"
	"SmileApp/pkg/s3"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func defaultCaption(score int) string {
	return fmt.Sprintf("Sharing my smile! 😊 (Smile Score: %d%%)", score)
}

func (s *postsService) CreatePost(ctx context.Context, req posts.CreatePostRequest, image []byte) (*posts.CreatePostResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.SmileScore < s.threshold {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"smile_score": req.SmileScore,
			"threshold":   s.threshold,
		}).Warn("Smile score below capture threshold")
		return nil, posts.ErrSmileBelowThreshold
	}

	if len(image) == 0 {
		return nil, posts.ErrImageRequired
	}

	compressed, err := imaging.Compress(image, imaging.DefaultMaxWidth, imaging.DefaultMaxHeight, imaging.DefaultQuality)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to compress image")
		return nil, posts.ErrInvalidImage
	}

	now := s.now()

	imageURL, err := s.s3Client.UploadBytes(ctx, s3.PostImageKey(now), compressed.Data, compressed.ContentType)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to upload image")
		return nil, posts.ErrFailedToUpload
	}

	postID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		s.discardUpload(requestID, imageURL)
		return nil, posts.ErrCreatePost
	}

	post := entity.Post{
		ID:         postID,
		Username:   req.Username,
		UserImage:  req.UserImage,
		ImageURL:   imageURL,
		Caption:    req.Caption,
		Likes:      0,
		SmileScore: req.SmileScore,
	}
	if post.Username == "" {
		post.Username = posts.DefaultUsername
	}
	if post.UserImage == "" {
		post.UserImage = posts.DefaultUserImage
	}
	if post.Caption == "" {
		post.Caption = defaultCaption(req.SmileScore)
	}

	created, err := s.insertPost(ctx, post)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create post")
		s.discardUpload(requestID, imageURL)
		return nil, posts.ErrCreatePost
	}

	if err := s.redis.PublishFeedChange(ctx, created.ID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"post_id":    created.ID,
			"error":      err.Error(),
		}).Warn("Failed to publish feed change")
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"post_id":     created.ID,
		"smile_score": created.SmileScore,
		"width":       compressed.Width,
		"height":      compressed.Height,
	}).Info("Post created")

	return &posts.CreatePostResponse{
		ID:        created.ID,
		Image:     s.presign(requestID, created.ImageURL),
		Caption:   created.Caption,
		Timestamp: created.CreatedAt,
	}, nil
}

func (s *postsService) insertPost(ctx context.Context, post entity.Post) (entity.Post, error) {
	repo, err := s.postsRepo.NewClient(true)
	if err != nil {
		return entity.Post{}, err
	}
	defer repo.Rollback()

	created, err := repo.Posts.CreatePost(ctx, post)
	if err != nil {
		return entity.Post{}, err
	}

	if err := repo.Commit(); err != nil {
		return entity.Post{}, err
	}

	return created, nil
}

// discardUpload removes an object whose post never made it into the database.
func (s *postsService) discardUpload(requestID, imageURL string) {
	if err := s.s3Client.DeleteFile(imageURL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"image_url":  imageURL,
			"error":      err.Error(),
		}).Error("Failed to delete orphaned image")
	}
}

func (s *postsService) GetPostByID(ctx context.Context, id string) (*posts.PostResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.postsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	post, err := repo.Posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, posts.ErrPostNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("Post not found")
		} else {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
				"error":      err.Error(),
			}).Error("Failed to get post")
		}
		return nil, err
	}

	resp := s.makePostResponse(requestID, post, s.now())
	return &resp, nil
}
