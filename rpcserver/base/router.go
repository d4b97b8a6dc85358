package base

import (
	"github.com/gin-gonic/gin"
)

type Service struct {
}

func NewService() *Service {
	return &Service{}
}

func (s *Service) InitRouter(r *gin.Engine, basePath string, auth gin.HandlerFunc) {
	// 心跳
	r.GET(basePath+"/health", s.getHealth)
	r.GET(basePath+"/secured_health", auth, s.getHealth)
}
