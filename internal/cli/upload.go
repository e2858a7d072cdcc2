package cli

import (
	"SmileApp/internal/api/post"
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type PostFields struct {
	Caption   string
	Username  string
	UserImage string
}

// Uploader shares captured screenshots through POST /api/v1/posts.
type Uploader struct {
	apiURL  string
	timeout time.Duration
}

func NewUploader(apiURL string) *Uploader {
	return &Uploader{
		apiURL:  strings.TrimRight(apiURL, "/"),
		timeout: 30 * time.Second,
	}
}

func (u *Uploader) Upload(image []byte, score int, fields PostFields) (*posts.CreatePostResponse, error) {
	body, contentType, err := encodePostForm(image, score, fields)
	if err != nil {
		return nil, err
	}

	agent := fiber.Post(u.apiURL + "/api/v1/posts").
		ContentType(contentType).
		Body(body).
		Timeout(u.timeout)

	var resp struct {
		posts.CreatePostResponse
		Error string `json:"error"`
	}
	code, _, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return nil, fmt.Errorf("upload failed: %w", errors.Join(errs...))
	}
	if code != fiber.StatusCreated {
		if resp.Error == "" {
			resp.Error = fiber.ErrBadRequest.Message
		}
		return nil, fmt.Errorf("upload rejected (%d): %s", code, resp.Error)
	}

	return &resp.CreatePostResponse, nil
}

func encodePostForm(image []byte, score int, fields PostFields) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="smile.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}

	values := map[string]string{
		"smile_score": strconv.Itoa(score),
		"caption":     fields.Caption,
		"username":    fields.Username,
		"user_image":  fields.UserImage,
	}
	for k, v := range values {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
