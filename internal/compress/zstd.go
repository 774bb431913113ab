package compress

// ZstdCodec provides Zstandard compression for property values where
// compression ratio matters more than raw throughput — cold storage tiers,
// archival snapshots, large text/byte properties.
//
// Its methods are implemented in zstd_pure.go (pure-Go, klauspost/compress,
// the default) and zstd_cgo.go (cgo-backed valyala/gozstd, opt-in only).
type ZstdCodec struct{}
