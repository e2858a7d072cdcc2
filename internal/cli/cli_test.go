package cli

import (
	"SmileApp/internal/api/post"
	"SmileApp/pkg/smile"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

func whitePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestRenderFeed(t *testing.T) {
	var buf bytes.Buffer
	RenderFeed(&buf, posts.FeedResponse{
		Posts: []posts.PostResponse{{
			Username:   "ana",
			SmileScore: 82,
			Likes:      3,
			TimeAgo:    "2 hours ago",
			Caption:    "big\n grin",
			Image:      "https://img/1",
		}},
		Total: 1,
	})

	out := buf.String()
	for _, want := range []string{"USER", "ana", "82%", "2 hours ago", "big grin", "https://img/1", "1 posts"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	RenderFeed(&buf, posts.FeedResponse{})
	if !strings.Contains(buf.String(), "No smiles") {
		t.Errorf("empty feed output = %q", buf.String())
	}
}

func TestScoreImage(t *testing.T) {
	var buf bytes.Buffer
	if err := scoreImage(&buf, whitePNG(t), 50); err != nil {
		t.Fatalf("scoreImage error: %v", err)
	}
	if !strings.Contains(buf.String(), "score: 40%") || !strings.Contains(buf.String(), "can capture: false") {
		t.Errorf("output = %q", buf.String())
	}

	if err := scoreImage(io.Discard, []byte("nope"), 50); err == nil {
		t.Error("expected decode error")
	}
}

func TestUploaderSendsMultipartPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/posts" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, header, err := r.FormFile("image")
		if err != nil || header.Header.Get("Content-Type") != "image/jpeg" {
			http.Error(w, "bad image part", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if r.FormValue("smile_score") != "77" || r.FormValue("username") != "ana" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"unexpected fields"}`))
			return
		}
		if _, ok := r.MultipartForm.Value["caption"]; ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"empty caption should be omitted"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(posts.CreatePostResponse{ID: "01POST", Caption: "ok"})
	}))
	defer srv.Close()

	resp, err := NewUploader(srv.URL+"/").Upload([]byte{0xFF, 0xD8}, 77, PostFields{Username: "ana"})
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if resp.ID != "01POST" {
		t.Errorf("id = %q", resp.ID)
	}

	_, err = NewUploader(srv.URL).Upload([]byte{0xFF, 0xD8}, 10, PostFields{Username: "ana"})
	if err == nil || !strings.Contains(err.Error(), "unexpected fields") {
		t.Errorf("rejected upload err = %v", err)
	}
}

type fakeCamera struct {
	scores    []uint8
	tick      atomic.Int32
	shots     int
	screenErr error
}

func (f *fakeCamera) Ready() bool { return true }

func (f *fakeCamera) CopyFrame(dst *smile.Raster) error {
	i := int(f.tick.Add(1)) - 1
	if i >= len(f.scores) {
		i = len(f.scores) - 1
	}
	for j := range dst.Pix {
		dst.Pix[j] = f.scores[i]
	}
	return nil
}

func (f *fakeCamera) Screenshot() ([]byte, error) {
	f.shots++
	if f.screenErr != nil {
		return nil, f.screenErr
	}
	return []byte("jpeg"), nil
}

func TestWaitForSmileCapturesFirstQualifyingTick(t *testing.T) {
	// A uniform 255 frame scores 40, a black one 0.
	cam := &fakeCamera{scores: []uint8{0, 0, 255}}
	opts := &captureOptions{threshold: 40, interval: time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	image, score, err := waitForSmile(ctx, cam, opts)
	if err != nil {
		t.Fatalf("waitForSmile error: %v", err)
	}
	if string(image) != "jpeg" || score != 40 {
		t.Errorf("image/score = %q/%d", image, score)
	}
	if cam.shots != 1 {
		t.Errorf("took %d screenshots, want 1", cam.shots)
	}
}

func TestWaitForSmileCancelled(t *testing.T) {
	cam := &fakeCamera{scores: []uint8{0}}
	opts := &captureOptions{threshold: 50, interval: time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, _, err := waitForSmile(ctx, cam, opts); err == nil {
		t.Error("expected error when nothing qualifies before cancellation")
	}
}

func TestWaitForSmileScreenshotError(t *testing.T) {
	cam := &fakeCamera{scores: []uint8{255}, screenErr: errors.New("device gone")}
	opts := &captureOptions{threshold: 40, interval: time.Millisecond}

	if _, _, err := waitForSmile(context.Background(), cam, opts); err == nil || !strings.Contains(err.Error(), "device gone") {
		t.Errorf("err = %v, want screenshot error", err)
	}
}
