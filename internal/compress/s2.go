package compress

import "github.com/klauspost/compress/s2"

// S2Codec trades some compression ratio for speed, suited to property
// values on the hot encode/decode path.
type S2Codec struct{}

func (S2Codec) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (S2Codec) Decompress(data []byte) ([]byte, error) {
	return s2.Decode(nil, data)
}
