package util

import (
	"github.com/gofiber/fiber/v2"
)

type ErrorResponseFormat struct {
	Code    int
	Message string
	Detail  string
}

type OrderedErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ErrorResponse writes the {error, detail?} body. Internal error text goes to
// the log, never to the client, unless passed explicitly as Detail.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat) error {
	errorCode := params.Code
	if errorCode == 0 {
		errorCode = fiber.StatusInternalServerError
	}
	message := params.Message
	if message == "" {
		message = "Internal Server Error"
	}
	return c.Status(errorCode).JSON(OrderedErrorResponse{
		Error:  message,
		Detail: params.Detail,
	})
}
