package postHandler

import (
	"SmileApp/internal/api/post"
	"SmileApp/internal/middleware"
	"SmileApp/pkg/utils"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type fakeService struct {
	createReq  posts.CreatePostRequest
	createErr  error
	feed       posts.FeedResponse
	changes    chan struct{}
	subscribed chan struct{}
}

func (f *fakeService) CreatePost(_ context.Context, req posts.CreatePostRequest, image []byte) (*posts.CreatePostResponse, error) {
	f.createReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &posts.CreatePostResponse{ID: "01POST", Image: "https://signed", Caption: "hi", Timestamp: time.Unix(0, 0)}, nil
}

func (f *fakeService) GetPostByID(_ context.Context, id string) (*posts.PostResponse, error) {
	for _, p := range f.feed.Posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, posts.ErrPostNotFound
}

func (f *fakeService) GetFeed(context.Context) (*posts.FeedResponse, error) {
	feed := f.feed
	return &feed, nil
}

func (f *fakeService) SubscribeFeed(context.Context) (<-chan struct{}, func() error, error) {
	if f.subscribed != nil {
		close(f.subscribed)
	}
	return f.changes, func() error { return nil }, nil
}

func newTestApp(svc *fakeService) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New()
	h := New(logger, validator.New(), middleware.New(logger), svc, utils.New())
	h.Start(app.Group("/api/v1"))
	return app
}

func multipartRequest(t *testing.T, fields map[string]string, withImage bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if withImage {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="smile.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		_, _ = part.Write([]byte{0xFF, 0xD8, 0xFF})
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Code
}

func TestCreatePostRequiresImage(t *testing.T) {
	app := newTestApp(&fakeService{})

	resp, err := app.Test(multipartRequest(t, map[string]string{"smile_score": "80"}, false))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "IMAGE_REQUIRED" {
		t.Errorf("code = %q", code)
	}
}

func TestCreatePostRejectsBadScore(t *testing.T) {
	app := newTestApp(&fakeService{})

	for _, score := range []string{"", "abc", "101", "-1"} {
		resp, err := app.Test(multipartRequest(t, map[string]string{"smile_score": score}, true))
		if err != nil {
			t.Fatalf("app.Test error: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("score %q: status = %d, want 400", score, resp.StatusCode)
		}
	}
}

func TestCreatePostWeakSmile(t *testing.T) {
	app := newTestApp(&fakeService{createErr: posts.ErrSmileBelowThreshold})

	resp, err := app.Test(multipartRequest(t, map[string]string{"smile_score": "30"}, true))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "SMILE_TOO_WEAK" {
		t.Errorf("code = %q, want SMILE_TOO_WEAK", code)
	}
}

func TestCreatePostSuccess(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc)

	resp, err := app.Test(multipartRequest(t, map[string]string{
		"smile_score": "85",
		"caption":     "  cheese  ",
		"username":    "ana",
	}, true))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body posts.CreatePostResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ID != "01POST" {
		t.Errorf("id = %q", body.ID)
	}
	if svc.createReq.SmileScore != 85 || svc.createReq.Caption != "cheese" || svc.createReq.Username != "ana" {
		t.Errorf("request = %+v", svc.createReq)
	}
}

func TestGetFeedAndPost(t *testing.T) {
	svc := &fakeService{feed: posts.FeedResponse{
		Posts: []posts.PostResponse{{ID: "a", TimeAgo: "a few seconds ago"}},
		Total: 1,
	}}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	var feed posts.FeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if feed.Total != 1 || feed.Posts[0].TimeAgo != "a few seconds ago" {
		t.Errorf("feed = %+v", feed)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/posts/a", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/posts/missing", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestFeedWebSocketRequiresUpgrade(t *testing.T) {
	app := newTestApp(&fakeService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/posts/ws", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}

func TestFeedWebSocketPushesOnConnectAndChange(t *testing.T) {
	svc := &fakeService{
		feed:       posts.FeedResponse{Posts: []posts.PostResponse{{ID: "a"}}, Total: 1},
		changes:    make(chan struct{}, 1),
		subscribed: make(chan struct{}),
	}
	app := newTestApp(svc)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/posts/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readFeed := func() posts.FeedResponse {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var feed posts.FeedResponse
		if err := json.Unmarshal(msg, &feed); err != nil {
			t.Fatalf("unmarshal %s: %v", msg, err)
		}
		return feed
	}

	if feed := readFeed(); feed.Total != 1 {
		t.Errorf("initial feed total = %d, want 1", feed.Total)
	}

	<-svc.subscribed
	svc.changes <- struct{}{}

	if feed := readFeed(); feed.Total != 1 || feed.Posts[0].ID != "a" {
		t.Errorf("pushed feed = %+v", feed)
	}
}

func TestFeedWebSocketClosesOnOversizedClientMessage(t *testing.T) {
	svc := &fakeService{
		feed:    posts.FeedResponse{Posts: []posts.PostResponse{}},
		changes: make(chan struct{}),
	}
	app := newTestApp(svc)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/posts/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("initial feed read: %v", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, make([]byte, feedReadLimit*2)); err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseMessageTooBig) {
		t.Errorf("read err = %v, want close 1009", err)
	}
}
