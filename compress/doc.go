// Package compress sniffs and unwraps the stream compression applied to
// serialized R files.
//
// R wraps both saveRDS and save output in a general-purpose compression
// container: gzip by default, bzip2 or xz on request, and zstd on recent
// releases. The container is identified purely by its magic bytes, so this
// package detects the algorithm from the first bytes of the stream and
// returns a streaming reader producing the plain serialization bytes.
//
// Detection is deterministic: a stream either starts with a known magic and
// is decompressed with exactly that algorithm, or it is passed through
// untouched. There is no retry with a different algorithm.
//
// Basic usage:
//
//	br := bufio.NewReader(file)
//	plain, ctype, err := compress.Open(br)
//	if err != nil {
//	    return err
//	}
//
// Corrupt or truncated compressed payloads surface as read errors from the
// returned reader, at the point the damage is reached.
package compress
