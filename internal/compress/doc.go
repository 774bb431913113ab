// Package compress provides the compression backends behind
// serializer.Compressed. It compresses a single property's serialized bytes
// before those bytes are VarFrame-framed into a PropCodec slot — it never
// touches row keys, column families, or the VarFrame/escape wire format
// itself.
//
// Four algorithms are available, matching the kind Kind enum: None, Zstd,
// S2, and LZ4. None is the right default for small numeric properties;
// Zstd and S2 suit larger text/byte properties where the space savings
// outweigh the per-call latency.
package compress
