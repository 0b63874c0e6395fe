package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

// linkRequest is the body of the link endpoints; exactly one of the ids is read per route.
type linkRequest struct {
	ContactID int64 `json:"contact_id"`
	ClientID  int64 `json:"client_id"`
}

func idParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, aggregates.InvalidArgument("http.idParam", fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return aggregates.InvalidArgument("http.bindJSON", "request body must be valid JSON")
	}
	return nil
}
