package asset

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

// InitRouter registers the asset routes, the write routes behind auth.
func (s *Service) InitRouter(r *gin.Engine, basePath string, auth gin.HandlerFunc) {
	// 创建与修改需要 api key
	r.POST(basePath+"/asset", auth, s.createAsset)
	r.PUT(basePath+"/asset/:pubkey", auth, s.updateAsset)
	r.PUT(basePath+"/asset/:pubkey/image", auth, s.putImage)

	r.GET(basePath+"/asset/:pubkey", s.getAsset)
	r.GET(basePath+"/asset/:pubkey/metadata.json", s.getMetadata)
	r.GET(basePath+"/asset/:pubkey/image", s.getImage)

	// 铸造到 L1
	r.POST(basePath+"/asset/mint", s.mintSync)
	r.POST(basePath+"/asset/mint-async", s.mintAsync)
	r.GET(basePath+"/asset/mint/:pubkey", s.getMintStatus)
}
