package dto

import (
	"github.com/gin-gonic/gin"
	"github.com/turtacn/obsdemo/pkg/errors"
)

// ErrorResponse is the JSON body for every non-readiness error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// NewErrorResponse builds the body for err. Errors that are not AppErrors are reported
// as server_error without leaking their text.
func NewErrorResponse(err error) (int, ErrorResponse) {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.HTTPStatus(), ErrorResponse{
			Error:            string(appErr.Code()),
			ErrorDescription: appErr.Description(),
		}
	}
	return errors.ErrInternalServer.HTTPStatus(), ErrorResponse{
		Error:            string(errors.ErrInternalServer.Code()),
		ErrorDescription: errors.ErrInternalServer.Description(),
	}
}

// SendError writes err as JSON and aborts the chain.
func SendError(c *gin.Context, err error) {
	status, body := NewErrorResponse(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
