package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ResolveLimit reads ?limit= (alias ?per_page=) and clamps it to [1, max].
// Missing or invalid values fall back to def.
func ResolveLimit(c *fiber.Ctx, def, max int) int {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("per_page"))
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		n = def
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}
