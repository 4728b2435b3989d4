package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	httpUtil "github.com/jmadden452/SlotLink/internal/http/util"
)

// AdvisorIDKey is the fiber.Locals key the advisor id is stored under.
const AdvisorIDKey = "advisor_id"

// AdvisorAuth validates the bearer advisor token and stores the advisor id in
// locals. Handlers behind it only ever see the id; authenticating the human
// is entirely the signer's problem.
func AdvisorAuth(signer *httpUtil.AdvisorTokenSigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing advisor token",
			})
		}

		advisorID, err := signer.Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid advisor token",
			})
		}

		c.Locals(AdvisorIDKey, advisorID)
		return c.Next()
	}
}

// AdvisorID extracts the advisor id stored by AdvisorAuth. The second return
// is false when the middleware did not run.
func AdvisorID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(AdvisorIDKey).(int64)
	return id, ok
}
