package handlers

import (
	"strconv"
	"strings"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
)

func pageRequest(c *fiber.Ctx) domain.PageRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = domain.DefaultPageSize
	}

	return domain.PageRequest{Page: page, Limit: limit}
}

// queryFlag reads "1" or "true" as set.
func queryFlag(c *fiber.Ctx, key string) bool {
	v := strings.ToLower(c.Query(key))
	return v == "1" || v == "true"
}

// queryList collects repeated and comma separated values of key.
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func recipesLimit(c *fiber.Ctx) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
