package server

import (
	"errors"
	"log/slog"

	"chirper/internal/middleware"
	"chirper/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	defaultPaginationLimit = 20
	maxPaginationLimit     = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

func (p Pagination) info(total int64) models.PaginationInfo {
	return models.PaginationInfo{Limit: p.Limit, Offset: p.Offset, Total: total}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 envelope and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 || uint64(id) > uint64(^uint32(0)) {
		_ = models.RespondWithError(c, models.NewBadRequestError("invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondWithError writes err as an envelope. Server-side failures are logged
// with the request's context; client errors are not.
func (s *Server) respondWithError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus() >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, err)
}
