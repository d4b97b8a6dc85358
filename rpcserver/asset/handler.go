package asset

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/rpcserver/utils"
	"github.com/sat20-labs/l2asset/rpcserver/wire"
)

const MAX_IMAGE_SIZE = 10 << 20

func pubkeyParam(c *gin.Context) (common.PublicKey, bool) {
	pk, err := utils.ParsePubkey(c.Param("pubkey"))
	if err != nil {
		utils.RespondError(c, err)
		return pk, false
	}
	return pk, true
}

// @Summary Create an L2 asset
// @Description Create an off-chain asset, its key is derived from the service seed
// @Tags asset
// @Accept json
// @Produce json
// @Security ApiKey
// @Param body body wire.CreateAssetReq true "asset"
// @Success 201 {object} wire.AssetResp "Created"
// @Failure 400 {object} wire.ErrorResp
// @Failure 401 "Invalid API Key"
// @Router /asset [post]
func (s *Service) createAsset(c *gin.Context) {
	var req wire.CreateAssetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, common.ErrInvalidRequest.With("%v", err))
		return
	}
	resp, err := s.model.createAsset(c.Request.Context(), &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Update an L2 asset
// @Description Partial update, only while the asset is still L2. A null collection clears it.
// @Tags asset
// @Accept json
// @Produce json
// @Security ApiKey
// @Param pubkey path string true "asset public key"
// @Param body body wire.UpdateAssetReq true "changed fields"
// @Success 200 {object} wire.AssetResp
// @Failure 400 {object} wire.ErrorResp
// @Failure 404 {object} wire.ErrorResp
// @Failure 409 {object} wire.ErrorResp
// @Router /asset/{pubkey} [put]
func (s *Service) updateAsset(c *gin.Context) {
	pk, ok := pubkeyParam(c)
	if !ok {
		return
	}
	var req wire.UpdateAssetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, common.ErrInvalidRequest.With("%v", err))
		return
	}
	resp, err := s.model.updateAsset(c.Request.Context(), pk, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get an L2 asset
// @Tags asset
// @Produce json
// @Param pubkey path string true "asset public key"
// @Success 200 {object} wire.AssetResp
// @Failure 404 {object} wire.ErrorResp
// @Router /asset/{pubkey} [get]
func (s *Service) getAsset(c *gin.Context) {
	pk, ok := pubkeyParam(c)
	if !ok {
		return
	}
	resp, err := s.model.getAsset(c.Request.Context(), pk)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get the metadata json of an asset
// @Tags asset
// @Produce json
// @Param pubkey path string true "asset public key"
// @Success 200 {object} object
// @Failure 404 {object} wire.ErrorResp
// @Router /asset/{pubkey}/metadata.json [get]
func (s *Service) getMetadata(c *gin.Context) {
	pk, ok := pubkeyParam(c)
	if !ok {
		return
	}
	metadata, err := s.model.getMetadata(c.Request.Context(), pk)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(metadata))
}

// @Summary Upload the image of an asset
// @Tags asset
// @Accept octet-stream
// @Produce json
// @Security ApiKey
// @Param pubkey path string true "asset public key"
// @Success 200 {object} wire.BaseResp
// @Failure 404 {object} wire.ErrorResp
// @Router /asset/{pubkey}/image [put]
func (s *Service) putImage(c *gin.Context) {
	pk, ok := pubkeyParam(c)
	if !ok {
		return
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, MAX_IMAGE_SIZE+1))
	if err != nil {
		utils.RespondError(c, common.ErrInvalidRequest.With("read image failed, %v", err))
		return
	}
	if len(data) > MAX_IMAGE_SIZE {
		utils.RespondError(c, common.ErrInvalidRequest.With("image exceeds %d bytes", MAX_IMAGE_SIZE))
		return
	}
	mime := c.ContentType()
	if mime == "" {
		mime = "application/octet-stream"
	}
	if err := s.model.service.PutImage(c.Request.Context(), pk, data, mime); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, &wire.BaseResp{Code: 0, Msg: "ok"})
}

// @Summary Get the image of an asset
// @Tags asset
// @Produce octet-stream
// @Param pubkey path string true "asset public key"
// @Success 200 {file} binary
// @Failure 404 {object} wire.ErrorResp
// @Router /asset/{pubkey}/image [get]
func (s *Service) getImage(c *gin.Context) {
	pk, ok := pubkeyParam(c)
	if !ok {
		return
	}
	data, mime, found, err := s.model.service.GetImage(c.Request.Context(), pk)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !found {
		utils.RespondError(c, common.ErrAssetNotFound.With("no image found for %s", pk))
		return
	}
	c.Data(http.StatusOK, mime, data)
}

// @Summary Mint an asset to L1 and wait for the result
// @Description The transaction must carry exactly one mpl-core CreateV1 instruction matching the asset
// @Tags mint
// @Accept json
// @Produce json
// @Param body body wire.MintReq true "base64 transaction"
// @Success 200 {object} wire.MintResp
// @Failure 400 {object} wire.ErrorResp
// @Failure 409 {object} wire.ErrorResp
// @Failure 502 {object} wire.ErrorResp
// @Router /asset/mint [post]
func (s *Service) mintSync(c *gin.Context) {
	s.mint(c, true)
}

// @Summary Mint an asset to L1 and return once submitted
// @Tags mint
// @Accept json
// @Produce json
// @Param body body wire.MintReq true "base64 transaction"
// @Success 200 {object} wire.MintResp
// @Failure 400 {object} wire.ErrorResp
// @Failure 409 {object} wire.ErrorResp
// @Failure 502 {object} wire.ErrorResp
// @Router /asset/mint-async [post]
func (s *Service) mintAsync(c *gin.Context) {
	s.mint(c, false)
}

func (s *Service) mint(c *gin.Context, execSync bool) {
	var req wire.MintReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, common.ErrInvalidRequest.With("%v", err))
		return
	}
	resp, err := s.model.mint(c.Request.Context(), &req, execSync)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get the mint status of an asset
// @Tags mint
// @Produce json
// @Param pubkey path string true "asset public key"
// @Success 200 {object} wire.MintStatusResp
// @Failure 404 {object} wire.ErrorResp
// @Router /asset/mint/{pubkey} [get]
func (s *Service) getMintStatus(c *gin.Context) {
	pk, ok := pubkeyParam(c)
	if !ok {
		return
	}
	resp, err := s.model.getMintStatus(c.Request.Context(), pk)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
