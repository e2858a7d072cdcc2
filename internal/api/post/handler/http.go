package postHandler

import (
	postService "SmileApp/internal/api/post/service"
	"SmileApp/internal/middleware"
	"SmileApp/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"time"
)

type PostsHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	postsService postService.IPostsService
	utils        utils.IUtils
	pingInterval time.Duration
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ps postService.IPostsService,
	utils utils.IUtils,
) *PostsHandler {
	return &PostsHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		postsService: ps,
		utils:        utils,
		pingInterval: 30 * time.Second,
	}
}

func (h *PostsHandler) Start(srv fiber.Router) {
	posts := srv.Group("/posts")

	posts.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	posts.Get("/ws", websocket.New(h.handleFeedWebSocket))

	posts.Post("", h.middleware.NewRateLimiter, h.CreatePost)
	posts.Get("", h.GetFeed)
	posts.Get("/:id", h.GetPostByID)
}
