package common

// 1.0.0  2026.06.02   rest api, async mint
// 1.1.0  2026.08.20   das json-rpc, startup sweep
const L2ASSET_SERVICE_VERSION = "1.1.0"

// 1.0.0  2026.06.02
// 1.1.0  2026.08.20    mint attempt removed on rollback
const L2_DB_VERSION = "1.1.0"
