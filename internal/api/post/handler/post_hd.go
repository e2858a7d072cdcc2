package postHandler

import (
	"SmileApp/internal/api/post"
	contextPkg "SmileApp/pkg/context"
	"SmileApp/pkg/handlerUtil"
	"SmileApp/pkg/log"
	"SmileApp/pkg/utils"
	"errors"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"strconv"
	"strings"
	"time"
)

func (h *PostsHandler) CreatePost(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing create post request")

	imageFile, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.Handle(ctx, requestID, posts.ErrImageRequired, ctx.Path(), "create_post")
	}

	if err := h.utils.ValidateImageFile(imageFile); err != nil {
		return errHandler.Handle(ctx, requestID, imageFileError(err), ctx.Path(), "validate_image_file")
	}

	smileScore, err := strconv.Atoi(strings.TrimSpace(ctx.FormValue("smile_score")))
	if err != nil {
		return errHandler.Handle(ctx, requestID, posts.ErrInvalidSmileScore, ctx.Path(), "create_post")
	}

	req := posts.CreatePostRequest{
		SmileScore: smileScore,
		Caption:    strings.TrimSpace(ctx.FormValue("caption")),
		Username:   strings.TrimSpace(ctx.FormValue("username")),
		UserImage:  strings.TrimSpace(ctx.FormValue("user_image")),
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	image, err := h.utils.ReadFile(imageFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image_file")
	}

	resp, err := h.postsService.CreatePost(c, req, image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_post")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, resp)
	}
}

func imageFileError(err error) error {
	switch {
	case errors.Is(err, utils.ErrNoFile):
		return posts.ErrImageRequired
	case errors.Is(err, utils.ErrFileTooLarge):
		return posts.ErrFileTooLarge
	case errors.Is(err, utils.ErrNotAnImage):
		return posts.ErrInvalidFileType
	default:
		return err
	}
}

func (h *PostsHandler) GetFeed(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing get feed request")

	feed, err := h.postsService.GetFeed(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_feed")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, feed)
	}
}

func (h *PostsHandler) GetPostByID(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("post ID is required"), ctx.Path())
	}

	post, err := h.postsService.GetPostByID(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_post")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, post)
	}
}
