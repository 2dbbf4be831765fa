// Package zip bundles in-memory files into a zip archive.
package zip

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

type Asset struct {
	Filename string
	MIME     string
	Data     []byte
}

// JSONAsset encodes v as an indented JSON file.
func JSONAsset(filename string, v any) (Asset, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Asset{}, fmt.Errorf("zip: encode %s: %w", filename, err)
	}
	return Asset{Filename: filename, MIME: "application/json", Data: data}, nil
}

// ArchiveAssets writes assets sorted by filename with a fixed modification
// time, so equal inputs give byte-identical archives.
func ArchiveAssets(assets []Asset, modified time.Time) ([]byte, error) {
	sorted := make([]Asset, len(assets))
	copy(sorted, assets)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Filename < sorted[j].Filename })

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, asset := range sorted {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     asset.Filename,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", asset.Filename, err)
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", asset.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}
