package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BindForm decodes a urlencoded, multipart or JSON body into out. Field rules
// are not checked here; the auth service reports them as flash messages.
func BindForm(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBind(out)

	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError

	if errors.As(err, &tooLarge) {
		RespondTooLarge(ctx)
		return false
	}

	RespondBadRequest(ctx, "Invalid request body", gin.H{"reason": "malformed_body"})
	return false
}
