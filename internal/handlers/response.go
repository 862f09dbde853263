package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"marketplace/internal/models"
	"marketplace/internal/validation"
)

const (
	titleInvalidJSON  = "Invalid JSON"
	detailInvalidJSON = "Request body must be valid JSON"
	detailStoreFailed = "Database operation failed"
)

func respondSuccess(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(models.SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func respondError(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Success: false,
		Error:   title,
		Message: message,
	})
}

// respondFailure answers with 400 for a rejected request and 500 with
// failure as the error string otherwise.
func respondFailure(c *fiber.Ctx, err error, failure, detail string) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return respondError(c, fiber.StatusBadRequest, verr.Title, verr.Detail)
	}
	return respondError(c, fiber.StatusInternalServerError, failure, detail)
}

// parseJSON decodes the request body with the app's JSON decoder whatever
// the Content-Type header says.
func parseJSON(c *fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return errors.New("empty body")
	}
	return c.App().Config().JSONDecoder(body, out)
}

// ErrorHandler wraps errors that escape a handler (unknown routes, body
// limit, recovered panics) in the error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	title := "Internal server error"
	message := "An unexpected error occurred"

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		status = ferr.Code
		title = ferr.Message
		message = ""
		if status >= fiber.StatusInternalServerError {
			title = "Internal server error"
			message = "An unexpected error occurred"
		}
	}
	return respondError(c, status, title, message)
}
