package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"todoapp/internal/apperrors"
)

// respondError maps an error kind to the transport status and a safe
// message; untyped errors become an opaque 500.
func respondError(c *gin.Context, err error, fallback string) {
	status := apperrors.HTTPStatus(err)
	msg := fallback
	if apperrors.KindOf(err) != apperrors.KindInternal {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
