package models

import "github.com/gofiber/fiber/v2"

// StatusSuccess is the envelope status of every successful response.
const StatusSuccess = "success"

// PaginationInfo describes the window of a list response.
type PaginationInfo struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// Envelope wraps every JSON response of the API.
type Envelope struct {
	Status         string          `json:"status"`
	Data           any             `json:"data"`
	PaginationInfo *PaginationInfo `json:"paginationInfo"`
}

// RespondWithData writes a 200 success envelope.
func RespondWithData(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Status: StatusSuccess, Data: data})
}

// RespondWithPage writes a 200 success envelope carrying pagination info.
func RespondWithPage(c *fiber.Ctx, data any, page PaginationInfo) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Status: StatusSuccess, Data: data, PaginationInfo: &page})
}
