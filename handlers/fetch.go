package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rackoyo/faleproxy/pkg/faleproxy"
)

// MsgFetchFailed is the single error message returned for upstream and parse failures.
const MsgFetchFailed = "Failed to fetch and process content"

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FetchPage is a Fiber handler for POST /fetch. It accepts {"url": "..."}
// as JSON or form data and answers with the rewritten page.
func FetchPage(p *faleproxy.Proxy, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req faleproxy.Request
		if err := c.BodyParser(&req); err != nil {
			// an unreadable body carries no url; Process reports it as missing
			logger.Debug("could not parse request body", zap.Error(err), zap.String("request_id", requestID(c)))
		}

		res, err := p.Process(c.UserContext(), req)
		if err != nil {
			var verr *faleproxy.ValidationError
			if errors.As(err, &verr) {
				return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: verr.Error()})
			}
			logger.Error("failed to fetch and process content",
				zap.String("url", req.URL),
				zap.String("request_id", requestID(c)),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: MsgFetchFailed})
		}

		return c.JSON(res)
	}
}
