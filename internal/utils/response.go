package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the JSON envelope every endpoint answers with. Data is left out of bodies that
// carry none; Pagination only appears on list endpoints.
type APIResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message"`
	Pagination interface{} `json:"pagination,omitempty"`
}

func respond(c *fiber.Ctx, status int, body APIResponse, fallback string) error {
	if body.Message == "" {
		body.Message = fallback
	}
	if status == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(body)
}

// SendSuccess answers 200 with data.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus answers a successful envelope with a custom status, e.g. 201 or a
// degraded 503 health report.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	return respond(c, status, APIResponse{Success: true, Data: data, Message: message}, "success")
}

// SendError answers a failure envelope without data.
func SendError(c *fiber.Ctx, status int, message string) error {
	return respond(c, status, APIResponse{Message: message}, "error")
}

// SendErrorWithData answers a failure envelope that still reports partial results.
func SendErrorWithData(c *fiber.Ctx, status int, message string, data interface{}) error {
	return respond(c, status, APIResponse{Data: data, Message: message}, "error")
}

// SendPaginated answers one page of a list together with its pagination metadata.
func SendPaginated(c *fiber.Ctx, message string, data interface{}, pagination interface{}) error {
	return respond(c, fiber.StatusOK, APIResponse{Success: true, Data: data, Message: message, Pagination: pagination}, "success")
}
