package errors

import (
	stderrors "errors"

	"social-publisher/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HandleError writes err as a JSON response. The client gets Code, a
// translated title and the error's own message; the wrapped cause is only
// logged.
func HandleError(c *fiber.Ctx, log *zap.Logger, err error) error {
	if err == nil {
		return nil
	}

	var pe *PublishError
	if stderrors.As(err, &pe) {
		if pe.Err != nil {
			log.Warn("publish error", zap.String("code", pe.Code), zap.Error(pe.Err))
		}

		title := i18n.T(pe.Code, pe.Message)
		message := pe.Message
		if message == "" {
			message = title
		}
		return c.Status(StatusFor(pe.Code)).JSON(fiber.Map{
			"error":   pe.Code,
			"title":   title,
			"message": message,
		})
	}

	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error":   CodeInvalidRequest,
			"message": fe.Message,
		})
	}

	log.Error("unexpected error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   CodeInternal,
		"message": i18n.T(CodeInternal, "Internal server error"),
	})
}

func StatusFor(code string) int {
	switch code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeInvalidRequest, CodeNotImage, CodeMediaLimit:
		return fiber.StatusBadRequest
	case CodeNotConnected, CodeMissingCredential:
		return fiber.StatusUnprocessableEntity
	case CodeStorage, CodeContainerNotReady, CodePublishRejected, CodePlatform:
		return fiber.StatusBadGateway
	case CodeQueue:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
