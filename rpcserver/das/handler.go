package das

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/rpcserver/utils"
	"github.com/sat20-labs/l2asset/rpcserver/wire"
)

type method func(m *Model, ctx context.Context, params json.RawMessage) (any, error)

// camelCase and snake_case names are both accepted
var methods = map[string]method{
	"getAsset":              (*Model).getAsset,
	"get_asset":             (*Model).getAsset,
	"getAssetBatch":         (*Model).getAssetBatch,
	"get_asset_batch":       (*Model).getAssetBatch,
	"getAssetsByOwner":      (*Model).getAssetsByOwner,
	"get_assets_by_owner":   (*Model).getAssetsByOwner,
	"getAssetsByCreator":    (*Model).getAssetsByCreator,
	"get_assets_by_creator": (*Model).getAssetsByCreator,
	"health": func(*Model, context.Context, json.RawMessage) (any, error) {
		return "Server is ok", nil
	},
}

func rpcError(id json.RawMessage, code int, msg, data string) *wire.RpcResponse {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return &wire.RpcResponse{
		JsonRpc: wire.JSONRPC_VERSION,
		Id:      id,
		Error:   &wire.RpcError{Code: code, Message: msg, Data: data},
	}
}

func (s *Service) call(ctx context.Context, req *wire.RpcRequest) *wire.RpcResponse {
	if req.JsonRpc != wire.JSONRPC_VERSION || req.Method == "" {
		return rpcError(req.Id, wire.RPC_INVALID_REQUEST, "Invalid request", "")
	}
	fn, ok := methods[req.Method]
	if !ok {
		return rpcError(req.Id, wire.RPC_METHOD_NOT_FOUND, "Method not found", req.Method)
	}
	result, err := fn(s.model, ctx, req.Params)
	if err != nil {
		msg := err.Error()
		switch common.KindOf(err) {
		case common.KIND_INTERNAL, common.KIND_INVARIANT:
			common.Log.Errorf("rpc %s failed, %v", req.Method, err)
			msg = "Internal error"
		}
		return rpcError(req.Id, utils.RpcCode(err), msg, common.CodeOf(err))
	}
	id := req.Id
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return &wire.RpcResponse{JsonRpc: wire.JSONRPC_VERSION, Id: id, Result: result}
}

// @Summary DAS json-rpc
// @Description getAsset, getAssetBatch, getAssetsByOwner, getAssetsByCreator. A batch is an array of requests.
// @Tags das
// @Accept json
// @Produce json
// @Param body body wire.RpcRequest true "json-rpc request"
// @Success 200 {object} wire.RpcResponse
// @Router /rpc [post]
func (s *Service) handleRpc(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, rpcError(nil, wire.RPC_PARSE_ERROR, "Parse error", err.Error()))
		return
	}
	ctx := c.Request.Context()

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var reqs []*wire.RpcRequest
		if err := json.Unmarshal(trimmed, &reqs); err != nil {
			c.JSON(http.StatusOK, rpcError(nil, wire.RPC_PARSE_ERROR, "Parse error", err.Error()))
			return
		}
		if len(reqs) == 0 {
			c.JSON(http.StatusOK, rpcError(nil, wire.RPC_INVALID_REQUEST, "Invalid request", "empty batch"))
			return
		}
		resps := make([]*wire.RpcResponse, len(reqs))
		for i, req := range reqs {
			if req == nil {
				resps[i] = rpcError(nil, wire.RPC_INVALID_REQUEST, "Invalid request", "")
				continue
			}
			resps[i] = s.call(ctx, req)
		}
		c.JSON(http.StatusOK, resps)
		return
	}

	var req wire.RpcRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		c.JSON(http.StatusOK, rpcError(nil, wire.RPC_PARSE_ERROR, "Parse error", err.Error()))
		return
	}
	c.JSON(http.StatusOK, s.call(ctx, &req))
}
