package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
	"github.com/yungbote/clientcontacts-backend/internal/platform/apierr"
)

type APIError struct {
	Message string               `json:"message"`
	Code    string               `json:"code,omitempty"`
	Errors  []aggregates.Failure `json:"errors,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err after mapping it through apierr, attaching it to the gin context
// so the request logger can see the cause.
func RespondAPIError(c *gin.Context, err error) {
	apiErr := apierr.FromError(err)
	_ = c.Error(err)
	c.JSON(apiErr.Status, ErrorEnvelope{
		Error: APIError{
			Message: apiErr.Message(),
			Code:    apiErr.Code,
			Errors:  apiErr.Failures,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
