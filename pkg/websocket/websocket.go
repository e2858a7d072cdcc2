package websocketPkg

import (
	posts "SmileApp/internal/api/post"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"net/url"
	"strings"
	"sync"
	"time"
)

const feedPath = "/api/v1/posts/ws"

type IFeedClient interface {
	// Subscribe blocks, invoking onFeed with the full ordered feed every time
	// the server pushes one, until ctx is cancelled. Dropped connections are
	// re-established.
	Subscribe(ctx context.Context, onFeed func(posts.FeedResponse)) error
	IsConnected() bool
	Close()
}

type feedClient struct {
	url          string
	conn         *websocket.Conn
	mu           sync.Mutex
	log          *logrus.Logger
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	retryDelay   time.Duration
}

func NewFeedClient(baseURL string, logger *logrus.Logger) (IFeedClient, error) {
	wsURL, err := FeedURL(baseURL)
	if err != nil {
		return nil, err
	}

	return &feedClient{
		url:          wsURL,
		log:          logger,
		pingInterval: 30 * time.Second,
		readTimeout:  90 * time.Second,
		writeTimeout: 5 * time.Second,
		retryDelay:   2 * time.Second,
	}, nil
}

// FeedURL turns an API base (http, https, ws or wss) into the feed socket URL.
func FeedURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + feedPath
	return u.String(), nil
}

func (c *feedClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}

func (c *feedClient) connect(ctx context.Context) (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.log.Infof("Connecting to feed at %s", c.url)

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Warnf("Error sending pong: %v", err)
		}
		return nil
	})
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	})

	c.conn = conn
	go c.keepAlive(conn)

	return conn, nil
}

func (c *feedClient) Subscribe(ctx context.Context, onFeed func(posts.FeedResponse)) error {
	stop := context.AfterFunc(ctx, c.Close)
	defer stop()

	for {
		conn, err := c.connect(ctx)
		if err != nil {
			c.log.Warnf("Feed connection failed: %v. Retrying in %s", err, c.retryDelay)
		} else {
			err = c.readLoop(conn, onFeed)
			if ctx.Err() == nil {
				c.log.Warnf("Feed connection lost: %v. Reconnecting in %s", err, c.retryDelay)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *feedClient) readLoop(conn *websocket.Conn, onFeed func(posts.FeedResponse)) error {
	for {
		if err := conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return err
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			c.markDead(conn)
			return err
		}

		if messageType != websocket.TextMessage {
			c.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		feed, err := DecodeFeed(message)
		if err != nil {
			c.log.Errorf("Error decoding feed: %v", err)
			continue
		}

		onFeed(feed)
	}
}

// DecodeFeed parses a feed frame, surfacing server-side error frames as errors.
func DecodeFeed(message []byte) (posts.FeedResponse, error) {
	var envelope struct {
		posts.FeedResponse
		Error string `json:"error"`
	}

	if err := json.Unmarshal(message, &envelope); err != nil {
		return posts.FeedResponse{}, fmt.Errorf("error unmarshaling feed: %w", err)
	}
	if envelope.Error != "" {
		return posts.FeedResponse{}, errors.New(envelope.Error)
	}

	return envelope.FeedResponse, nil
}

func (c *feedClient) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Warnf("Ping failed, marking feed connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

func (c *feedClient) markDead(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == conn {
		c.conn = nil
	}
	conn.Close()
}

func (c *feedClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeTimeout))
		c.conn.Close()
		c.conn = nil
	}
}
