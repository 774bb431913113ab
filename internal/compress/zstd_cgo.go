//go:build nobuild

package compress

import "github.com/valyala/gozstd"

// Compress compresses data using cgo-backed Zstandard. Disabled by default
// (build tag "nobuild" never matches) so consumers don't need a cgo
// toolchain; opt in by building with -tags cgo_zstd and replacing the build
// tag above.
func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
