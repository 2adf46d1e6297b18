package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/handlers/bookingops"
)

type AuditHandler struct {
	Commands commands.Bus
}

func (h AuditHandler) Post(c *gin.Context) {
	var cmd bookingops.PostNightAuditCommand
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	result, err := commands.Dispatch[bookingops.PostNightAuditCommand, bookingops.PostNightAuditResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AuditHTTP = AuditHandler{}
