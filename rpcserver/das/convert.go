package das

import (
	"encoding/json"
	"mime"
	"net/url"
	"path"

	"github.com/sat20-labs/l2asset/rpcserver/wire"
	"github.com/sat20-labs/l2asset/service"
)

const (
	MPL_CORE_INTERFACE   = "MplCoreAsset"
	METAPLEX_SCHEMA      = "https://schema.metaplex.com/nft1.0.json"
	COLLECTION_GROUP_KEY = "collection"
	DEFAULT_FILE_MIME    = "image/png"
)

var linkFields = []string{"image", "animation_url", "external_url"}

func mimeFromUri(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DEFAULT_FILE_MIME
	}
	if m := mime.TypeByExtension(path.Ext(u.Path)); m != "" {
		return m
	}
	return DEFAULT_FILE_MIME
}

// filesOf collects properties.files and the top level image and
// animation_url, the image first.
func filesOf(metadata map[string]any, links map[string]any) []*wire.File {
	files := make([]*wire.File, 0)
	seen := make(map[string]bool)
	add := func(f *wire.File) {
		if f.Uri == "" || seen[f.Uri] {
			return
		}
		seen[f.Uri] = true
		files = append(files, f)
	}

	if image, ok := links["image"].(string); ok {
		add(&wire.File{Uri: image, Mime: mimeFromUri(image)})
	}
	if props, ok := metadata["properties"].(map[string]any); ok {
		list, _ := props["files"].([]any)
		for _, item := range list {
			switch v := item.(type) {
			case string:
				add(&wire.File{Uri: v, Mime: mimeFromUri(v)})
			case map[string]any:
				uri, _ := v["uri"].(string)
				if uri == "" {
					uri, _ = v["url"].(string)
				}
				m, _ := v["type"].(string)
				if m == "" {
					m = mimeFromUri(uri)
				}
				add(&wire.File{Uri: uri, Mime: m})
			}
		}
	}
	if anim, ok := links["animation_url"].(string); ok {
		add(&wire.File{Uri: anim, Mime: mimeFromUri(anim)})
	}
	return files
}

// ToDasAsset renders an L2 asset the way the das api renders an mpl-core
// asset. Metadata that is not a json object contributes nothing.
func ToDasAsset(info *service.AssetInfo, metadataUri string) *wire.DasAsset {
	asset := info.Asset

	var parsed map[string]any
	if info.Metadata != "" {
		_ = json.Unmarshal([]byte(info.Metadata), &parsed)
	}
	meta := map[string]any{
		"name":   asset.Name,
		"symbol": "",
	}
	links := make(map[string]any)
	if parsed != nil {
		if desc, ok := parsed["description"]; ok {
			meta["description"] = desc
		}
		if attrs, ok := parsed["attributes"]; ok {
			meta["attributes"] = attrs
		}
		for _, f := range linkFields {
			if v, ok := parsed[f]; ok {
				links[f] = v
			}
		}
	}

	creators := []*wire.Creator{{Address: asset.Creator, Share: 100, Verified: true}}
	ret := &wire.DasAsset{
		Interface: MPL_CORE_INTERFACE,
		Id:        asset.Pubkey.String(),
		Content: &wire.Content{
			Schema:   METAPLEX_SCHEMA,
			JsonUri:  metadataUri,
			Files:    filesOf(parsed, links),
			Metadata: meta,
			Links:    links,
		},
		Authorities: []*wire.Authority{{Address: asset.Authority, Scopes: []string{"full"}}},
		Compression: &wire.Compression{},
		Royalty: &wire.Royalty{
			RoyaltyModel: "creators",
			Percent:      float64(asset.RoyaltyBasisPoints) * 0.0001,
			BasisPoints:  uint32(asset.RoyaltyBasisPoints),
		},
		Creators: creators,
		Ownership: wire.Ownership{
			OwnershipModel: "single",
			Owner:          asset.Owner,
		},
		Mutable: true,
	}
	if asset.Collection != nil {
		collection := asset.Collection.String()
		verified := true
		ret.Grouping = []*wire.Group{{
			GroupKey:   COLLECTION_GROUP_KEY,
			GroupValue: &collection,
			Verified:   &verified,
		}}
	}
	return ret
}
