package smileHandler

import (
	"SmileApp/internal/api/smile"
	contextPkg "SmileApp/pkg/context"
	"SmileApp/pkg/handlerUtil"
	"SmileApp/pkg/log"
	"SmileApp/pkg/utils"
	"errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
	"strings"
	"time"
)

func (h *SmileHandler) ScoreImage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing smile score request")

	var image []byte
	if strings.HasPrefix(string(ctx.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		file, err := ctx.FormFile("image")
		if err != nil {
			return errHandler.Handle(ctx, requestID, smiles.ErrImageRequired, ctx.Path(), "score_image")
		}

		if err := h.utils.ValidateImageFile(file); err != nil {
			return errHandler.Handle(ctx, requestID, imageFileError(err), ctx.Path(), "validate_image_file")
		}

		image, err = h.utils.ReadFile(file)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image_file")
		}
	} else {
		var req smiles.ScoreRequest
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		decoded, err := h.utils.DecodeBase64Image(req.ImageBase64)
		if err != nil {
			return errHandler.Handle(ctx, requestID, imageFileError(err), ctx.Path(), "decode_base64")
		}
		image = decoded
	}

	result, err := h.smileService.ScoreImage(c, image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "score_image")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func imageFileError(err error) error {
	switch {
	case errors.Is(err, utils.ErrNoFile):
		return smiles.ErrImageRequired
	case errors.Is(err, utils.ErrFileTooLarge):
		return smiles.ErrFileTooLarge
	case errors.Is(err, utils.ErrNotAnImage):
		return smiles.ErrInvalidFileType
	default:
		return smiles.ErrInvalidImage
	}
}

// handleScoreWebSocket scores every binary frame it receives and answers with
// one JSON message per frame.
func (h *SmileHandler) handleScoreWebSocket(c *websocket.Conn) {
	h.log.Info("Smile WebSocket client connected")
	defer h.log.Info("Smile WebSocket client disconnected")

	c.SetReadLimit(h.maxFrameSize)

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Smile WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var reply interface{}
		result, err := h.smileService.ScoreFrame(message)
		if err != nil {
			reply = map[string]string{"error": err.Error()}
		} else {
			reply = result
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(reply); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
