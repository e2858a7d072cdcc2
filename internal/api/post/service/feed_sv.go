package postService

import (
	"SmileApp/internal/api/post"
	"SmileApp/internal/entity"
	contextPkg "SmileApp/pkg/context"
	"SmileApp/pkg/timeago"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"time"
)

func (s *postsService) GetFeed(ctx context.Context) (*posts.FeedResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.postsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, posts.ErrGetFeed
	}

	list, err := repo.Posts.GetAllPosts(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get posts")
		return nil, posts.ErrGetFeed
	}

	now := s.now()
	resp := &posts.FeedResponse{
		Posts: make([]posts.PostResponse, 0, len(list)),
		Total: len(list),
	}
	for _, post := range list {
		resp.Posts = append(resp.Posts, s.makePostResponse(requestID, post, now))
	}

	return resp, nil
}

func (s *postsService) SubscribeFeed(ctx context.Context) (<-chan struct{}, func() error, error) {
	requestID := contextPkg.GetRequestID(ctx)

	changes, closeFn, err := s.redis.SubscribeFeedChanges(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to subscribe to feed changes")
		return nil, nil, posts.ErrGetFeed
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case postID, ok := <-changes:
				if !ok {
					return
				}
				s.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"post_id":    postID,
				}).Debug("Feed changed")

				// Coalesce bursts: a pending signal already triggers a full re-query.
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, closeFn, nil
}

func (s *postsService) makePostResponse(requestID string, post entity.Post, now time.Time) posts.PostResponse {
	return posts.PostResponse{
		ID:         post.ID,
		Username:   post.Username,
		UserImage:  post.UserImage,
		Image:      s.presign(requestID, post.ImageURL),
		Caption:    post.Caption,
		Likes:      post.Likes,
		SmileScore: post.SmileScore,
		Timestamp:  post.CreatedAt,
		TimeAgo:    timeago.Between(post.CreatedAt, now),
	}
}

// presign falls back to the stored URL when signing fails.
func (s *postsService) presign(requestID, imageURL string) string {
	if imageURL == "" {
		return ""
	}

	presignedURL, err := s.s3Client.PresignUrl(imageURL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"image_url":  imageURL,
			"error":      err.Error(),
		}).Warn("Failed to create presigned URL for image")
		return imageURL
	}

	return presignedURL
}
