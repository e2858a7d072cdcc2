package postService

import (
	"SmileApp/internal/api/post"
	postRepository "SmileApp/internal/api/post/repository"
	"SmileApp/pkg/redis"
	"SmileApp/pkg/s3"
	"SmileApp/pkg/utils"
	"context"
	"github.com/sirupsen/logrus"
	"time"
)

type IPostsService interface {
	CreatePost(ctx context.Context, req posts.CreatePostRequest, image []byte) (*posts.CreatePostResponse, error)
	GetPostByID(ctx context.Context, id string) (*posts.PostResponse, error)
	GetFeed(ctx context.Context) (*posts.FeedResponse, error)
	// SubscribeFeed emits once per feed change until ctx is done or the
	// returned close func is called.
	SubscribeFeed(ctx context.Context) (<-chan struct{}, func() error, error)
}

type postsService struct {
	log       *logrus.Logger
	postsRepo postRepository.Repository
	s3Client  s3.ItfS3
	redis     redis.IRedis
	utils     utils.IUtils
	threshold int
	now       func() time.Time
}

func NewPostsService(
	log *logrus.Logger,
	postsRepo postRepository.Repository,
	s3Client s3.ItfS3,
	redis redis.IRedis,
	utils utils.IUtils,
	threshold int,
) IPostsService {
	return &postsService{
		log:       log,
		postsRepo: postsRepo,
		s3Client:  s3Client,
		redis:     redis,
		utils:     utils,
		threshold: threshold,
		now:       time.Now,
	}
}
