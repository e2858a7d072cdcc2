package redis

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const FeedChannel = "posts:changed"

type IRedis interface {
	PublishFeedChange(ctx context.Context, postID string) error
	SubscribeFeedChanges(ctx context.Context) (<-chan string, func() error, error)
	Close() error
}

type redisClient struct {
	client  *redis.Client
	channel string
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client, channel: FeedChannel}
}

func (r *redisClient) PublishFeedChange(ctx context.Context, postID string) error {
	logrus.Debug(fmt.Sprintf("Publishing feed change for post %s", postID))
	receivers, err := r.client.Publish(ctx, r.channel, postID).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error publishing feed change for post %s: %v", postID, err))
		return err
	}
	logrus.Debug(fmt.Sprintf("Feed change for post %s delivered to %d subscribers", postID, receivers))
	return nil
}

// SubscribeFeedChanges returns a channel carrying the IDs of changed posts.
// The channel is closed once the returned close function is called.
func (r *redisClient) SubscribeFeedChanges(ctx context.Context) (<-chan string, func() error, error) {
	pubsub := r.client.Subscribe(ctx, r.channel)

	// Wait for the subscription confirmation so no publish is missed between
	// the initial feed snapshot and the first notification.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		logrus.Error(fmt.Sprintf("Error subscribing to %s: %v", r.channel, err))
		return nil, nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, pubsub.Close, nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
