package das

import (
	"testing"
	"time"

	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAsset() *common.L2Asset {
	var pk, collection common.PublicKey
	pk[0], collection[0] = 1, 2
	return &common.L2Asset{
		Pubkey:             pk,
		Name:               "Hat",
		Owner:              "owner",
		Creator:            "creator",
		Authority:          "authority",
		Collection:         &collection,
		RoyaltyBasisPoints: 250,
		CreateTimestamp:    time.UnixMilli(1000).UTC(),
		UpdateTimestamp:    time.UnixMilli(2000).UTC(),
		State:              common.ASSET_STATE_L2,
	}
}

func TestToDasAsset(t *testing.T) {
	metadata := `{
		"description": "d",
		"attributes": [{"trait_type": "color", "value": "red"}],
		"image": "https://img.test/hat.jpg",
		"animation_url": "https://img.test/hat.mp4",
		"properties": {"files": [
			{"uri": "https://img.test/hat.jpg", "type": "image/jpeg"},
			{"url": "https://img.test/extra.gif"},
			"https://img.test/raw.png"
		]}
	}`
	asset := ToDasAsset(&service.AssetInfo{Asset: testAsset(), Metadata: metadata}, "https://l2.test/meta")

	assert.Equal(t, MPL_CORE_INTERFACE, asset.Interface)
	assert.Equal(t, "https://l2.test/meta", asset.Content.JsonUri)
	assert.Equal(t, "d", asset.Content.Metadata["description"])
	assert.Equal(t, "", asset.Content.Metadata["symbol"])
	assert.NotNil(t, asset.Content.Metadata["attributes"])

	uris := make([]string, 0)
	for _, f := range asset.Content.Files {
		uris = append(uris, f.Uri)
	}
	assert.Equal(t, []string{
		"https://img.test/hat.jpg",
		"https://img.test/extra.gif",
		"https://img.test/raw.png",
		"https://img.test/hat.mp4",
	}, uris)
	assert.Equal(t, "image/jpeg", asset.Content.Files[0].Mime)
	assert.Equal(t, "image/gif", asset.Content.Files[1].Mime)

	require.Len(t, asset.Grouping, 1)
	assert.Equal(t, COLLECTION_GROUP_KEY, asset.Grouping[0].GroupKey)
	assert.Equal(t, testAsset().Collection.String(), *asset.Grouping[0].GroupValue)
	assert.Equal(t, "authority", asset.Authorities[0].Address)
	assert.Equal(t, "owner", asset.Ownership.Owner)
	assert.Equal(t, uint32(250), asset.Royalty.BasisPoints)
}

func TestToDasAsset_NoObjectMetadata(t *testing.T) {
	a := testAsset()
	a.Collection = nil
	asset := ToDasAsset(&service.AssetInfo{Asset: a, Metadata: `[1,2]`}, "uri")
	assert.Equal(t, "Hat", asset.Content.Metadata["name"])
	assert.Empty(t, asset.Content.Files)
	assert.Empty(t, asset.Content.Links)
	assert.Nil(t, asset.Grouping)
}

func TestVerifyLimitAndPage(t *testing.T) {
	limit, err := verifyLimit(nil)
	assert.NoError(t, err)
	assert.Equal(t, uint32(common.DEFAULT_LIMIT_FOR_PAGE), limit)

	n := uint32(999)
	limit, err = verifyLimit(&n)
	assert.NoError(t, err)
	assert.Equal(t, n, limit)
	n = 1000
	_, err = verifyLimit(&n)
	assert.ErrorIs(t, err, common.ErrLimitTooBig)

	page, err := verifyPage(nil)
	assert.NoError(t, err)
	assert.Nil(t, page)
	_, err = verifyPage(&n)
	assert.ErrorIs(t, err, common.ErrPageTooBig)
}
