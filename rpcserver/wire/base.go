package wire

type BaseResp struct {
	Code int    `json:"code" example:"0"`
	Msg  string `json:"msg" example:"ok"`
}

// ErrorResp carries the stable error code next to the message.
type ErrorResp struct {
	BaseResp
	Error string `json:"error" example:"asset_not_found"`
}

type HealthStatusResp struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"0.1.0"`
}
