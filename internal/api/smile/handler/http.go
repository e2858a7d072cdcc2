package smileHandler

import (
	smileService "SmileApp/internal/api/smile/service"
	"SmileApp/internal/middleware"
	"SmileApp/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type SmileHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	smileService smileService.ISmileService
	utils        utils.IUtils
	maxFrameSize int64
}

// defaultMaxFrameSize matches the upload limit in pkg/utils.
const defaultMaxFrameSize = 10 * 1024 * 1024

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ss smileService.ISmileService,
	utils utils.IUtils,
) *SmileHandler {
	return &SmileHandler{
		log:          log,
		validator:    validator,
		middleware:   middleware,
		smileService: ss,
		utils:        utils,
		maxFrameSize: defaultMaxFrameSize,
	}
}

func (h *SmileHandler) Start(srv fiber.Router) {
	smile := srv.Group("/smile")

	smile.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	smile.Get("/ws", websocket.New(h.handleScoreWebSocket))

	smile.Post("/score", h.middleware.NewRateLimiter, h.ScoreImage)
}
