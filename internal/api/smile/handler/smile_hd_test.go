package smileHandler

import (
	"SmileApp/internal/api/smile"
	smileService "SmileApp/internal/api/smile/service"
	"SmileApp/internal/middleware"
	"SmileApp/pkg/utils"
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func whitePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func newTestHandler() *SmileHandler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return New(logger, validator.New(), middleware.New(logger), smileService.NewSmileService(logger, 50), utils.New())
}

func newTestApp() *fiber.App {
	return newAppFor(newTestHandler())
}

func newAppFor(h *SmileHandler) *fiber.App {
	app := fiber.New()
	h.Start(app.Group("/api/v1"))
	return app
}

// dialScoreSocket serves app on a local listener and connects to /smile/ws.
func dialScoreSocket(t *testing.T, app *fiber.App) *websocket.Conn {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/smile/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// oversizedPNG is a tiny PNG whose header declares a 16000x16000 canvas.
func oversizedPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[16:20], 16000)
	binary.BigEndian.PutUint32(data[20:24], 16000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func decodeScore(t *testing.T, resp *http.Response) smiles.ScoreResponse {
	t.Helper()
	var body smiles.ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestScoreImageBase64(t *testing.T) {
	app := newTestApp()

	payload := `{"image_base64":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(whitePNG(t)) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/smile/score", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body := decodeScore(t, resp); body.Score != 40 || body.CanCapture {
		t.Errorf("body = %+v", body)
	}
}

func TestScoreImageMultipart(t *testing.T) {
	app := newTestApp()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="face.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	_, _ = part.Write(whitePNG(t))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/smile/score", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := decodeScore(t, resp); got.Score != 40 {
		t.Errorf("score = %d, want 40", got.Score)
	}
}

func TestScoreImageRejectsBadInput(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name    string
		payload string
		status  int
	}{
		{"missing image", `{}`, fiber.StatusBadRequest},
		{"not base64", `{"image_base64":"%%%"}`, fiber.StatusBadRequest},
		{"not an image", `{"image_base64":"` + base64.StdEncoding.EncodeToString([]byte("hello")) + `"}`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/smile/score", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test error: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestScoreWebSocket(t *testing.T) {
	conn := dialScoreSocket(t, newTestApp())

	exchange := func(frame []byte) map[string]interface{} {
		t.Helper()
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			t.Fatalf("write: %v", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var reply map[string]interface{}
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("read: %v", err)
		}
		return reply
	}

	if reply := exchange([]byte("garbage")); reply["error"] == nil {
		t.Errorf("garbage frame reply = %v, want error", reply)
	}
	if reply := exchange(oversizedPNG(t)); reply["error"] != smiles.ErrInvalidImage.Error() {
		t.Errorf("oversized frame reply = %v, want invalid image error", reply)
	}
	if reply := exchange(whitePNG(t)); reply["score"] != float64(40) {
		t.Errorf("frame reply = %v, want score 40", reply)
	}
}

func TestScoreWebSocketClosesOnFrameOverLimit(t *testing.T) {
	h := newTestHandler()
	h.maxFrameSize = 1024
	conn := dialScoreSocket(t, newAppFor(h))

	if err := conn.WriteMessage(websocket.BinaryMessage, make([]byte, 4096)); err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseMessageTooBig) {
		t.Errorf("read err = %v, want close 1009", err)
	}
}
