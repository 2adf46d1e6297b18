package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/handlers/roomops"
	"frontdesk/internal/app/queries"
)

type RoomHandler struct {
	Queries queries.Bus
}

func (h RoomHandler) List(c *gin.Context) {
	result, err := queries.Ask[roomops.ListRoomsQuery, []dto.Room](c.Request.Context(), h.Queries, roomops.ListRoomsQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": result})
}

func (h RoomHandler) Available(c *gin.Context) {
	var q roomops.AvailableRoomsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := queries.Ask[roomops.AvailableRoomsQuery, roomops.AvailableRoomsResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ RoomHTTP = RoomHandler{}
