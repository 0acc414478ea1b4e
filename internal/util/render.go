package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Render writes data as the JSON response body.
func Render(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Message writes the {"message": ...} body used for errors and acknowledgements.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// Abort is Message for middleware: nothing after it in the chain runs.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// Page reads limit and offset from the query string. Missing or malformed
// values fall back to defLimit and 0.
func Page(c *gin.Context, defLimit int) (limit, offset int) {
	limit = queryInt(c, "limit", defLimit)
	offset = queryInt(c, "offset", 0)
	return limit, offset
}

func queryInt(c *gin.Context, key string, def int) int {
	v, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
