package compress

import "fmt"

// Kind identifies a compression algorithm.
type Kind uint8

const (
	KindNone Kind = iota + 1
	KindZstd
	KindS2
	KindLZ4
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindZstd:
		return "Zstd"
	case KindS2:
		return "S2"
	case KindLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Codec compresses and decompresses property byte strings.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var builtin = map[Kind]Codec{
	KindNone: NoOpCodec{},
	KindZstd: ZstdCodec{},
	KindS2:   S2Codec{},
	KindLZ4:  LZ4Codec{},
}

// Get returns the built-in Codec for kind.
func Get(kind Kind) (Codec, error) {
	codec, ok := builtin[kind]
	if !ok {
		return nil, fmt.Errorf("compress: unsupported kind: %s", kind)
	}

	return codec, nil
}
