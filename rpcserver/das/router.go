package das

import (
	"github.com/gin-gonic/gin"
	"github.com/sat20-labs/l2asset/service"
)

type Service struct {
	model *Model
}

func NewService(s *service.AssetService) *Service {
	return &Service{
		model: NewModel(s),
	}
}

func (s *Service) InitRouter(r *gin.Engine, basePath string) {
	// das 风格 json-rpc
	r.POST(basePath+"/rpc", s.handleRpc)
}
