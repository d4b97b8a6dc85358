package common

const (
	SOLANA_COIN = 501

	// mpl-core program
	MPL_CORE_PROGRAM_ID = "CoREENxT6tW1HoK8ypY1SxRMZTcVPm7R94rH4PZNhX7d"
)

const (
	DEFAULT_LIMIT_FOR_PAGE = 1000
	DEFAULT_MAX_PAGE_LIMIT = 1000
)

// MetadataUri is the uri the mint transaction of an asset must carry.
func MetadataUri(baseUrl string, pk PublicKey) string {
	return baseUrl + "/asset/" + pk.String() + "/metadata.json"
}
