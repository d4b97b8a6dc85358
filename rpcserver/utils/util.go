package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/rpcserver/wire"
	"github.com/sat20-labs/l2asset/service"
)

const TIMESTAMP_LAYOUT = "2006-01-02T15:04:05.000Z"

func HttpStatus(err error) int {
	switch common.KindOf(err) {
	case common.KIND_VALIDATION:
		return http.StatusBadRequest
	case common.KIND_NOT_FOUND:
		return http.StatusNotFound
	case common.KIND_CONFLICT:
		return http.StatusConflict
	case common.KIND_UPSTREAM:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func RpcCode(err error) int {
	switch common.KindOf(err) {
	case common.KIND_VALIDATION:
		return wire.RPC_INVALID_PARAMS
	case common.KIND_NOT_FOUND, common.KIND_CONFLICT:
		return wire.RPC_SERVER_ERROR
	}
	return wire.RPC_INTERNAL_ERROR
}

// RespondError writes err with the status of its kind. Internal causes are
// logged and not sent to the client.
func RespondError(c *gin.Context, err error) {
	status := HttpStatus(err)
	msg := err.Error()
	switch common.KindOf(err) {
	case common.KIND_INTERNAL:
		common.Log.Errorf("%s %s failed, %v", c.Request.Method, c.Request.URL.Path, err)
		msg = "internal error"
	case common.KIND_INVARIANT:
		common.Log.Errorf("%s %s failed, %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, &wire.ErrorResp{
		BaseResp: wire.BaseResp{Code: -1, Msg: msg},
		Error:    common.CodeOf(err),
	})
}

func ParsePubkey(s string) (common.PublicKey, error) {
	return common.PublicKeyFromBase58(s)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TIMESTAMP_LAYOUT)
}

func ToAssetInfo(info *service.AssetInfo, metadataUri string) *wire.AssetInfo {
	asset := info.Asset
	ret := &wire.AssetInfo{
		Pubkey:             asset.Pubkey.String(),
		Name:               asset.Name,
		Owner:              asset.Owner,
		Creator:            asset.Creator,
		Authority:          asset.Authority,
		RoyaltyBasisPoints: asset.RoyaltyBasisPoints,
		CreateTimestamp:    FormatTimestamp(asset.CreateTimestamp),
		UpdateTimestamp:    FormatTimestamp(asset.UpdateTimestamp),
		State:              string(asset.State),
		MetadataUri:        metadataUri,
	}
	if asset.Collection != nil {
		collection := asset.Collection.String()
		ret.Collection = &collection
	}
	if info.Metadata != "" {
		metadata := info.Metadata
		ret.MetadataJson = &metadata
	}
	return ret
}
