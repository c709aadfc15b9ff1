package readProbe

import (
	"net/http"

	"nutrition-go-worker/controllers/check"

	"github.com/gin-gonic/gin"
)

func Probe(c *gin.Context) {
	c.JSON(http.StatusOK, check.AliveResponse{Success: true, Messsage: "probe success"})
}
