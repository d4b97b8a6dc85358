package base

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/rpcserver/wire"
)

// @Summary Health Check
// @Description Check the health status of the service
// @Tags base
// @Produce json
// @Success 200 {object} wire.HealthStatusResp "Successful response"
// @Router /health [get]
func (s *Service) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, &wire.HealthStatusResp{
		Status:  "ok",
		Version: common.L2ASSET_SERVICE_VERSION,
	})
}
