package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"masarif/internal/dto"
	"masarif/internal/errs"
)

// respondError maps a service error onto the uniform error body. Raw model
// output is only exposed for contract violations, where the caller needs it
// to understand what went wrong.
func respondError(c *fiber.Ctx, err error) error {
	body := dto.ErrorResponse{
		Success: false,
		Code:    string(errs.CodeOf(err)),
		Error:   err.Error(),
	}

	var e *errs.Error
	if errors.As(err, &e) && e.Code == errs.CodeExtractionFailure {
		body.RawResponse = e.RawResponse
	}

	return c.Status(errs.HTTPStatus(err)).JSON(body)
}

// errorBody renders an error inline, for batch items where the HTTP status
// stays 200.
func errorBody(err error) *dto.ErrorResponse {
	body := &dto.ErrorResponse{
		Success: false,
		Code:    string(errs.CodeOf(err)),
		Error:   err.Error(),
	}

	var e *errs.Error
	if errors.As(err, &e) && e.Code == errs.CodeExtractionFailure {
		body.RawResponse = e.RawResponse
	}
	return body
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Success: false,
		Error:   msg,
	})
}
