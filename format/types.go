// Package format defines the shared enums and wire constants of the R
// serialization protocol: stream framing kinds, wire modes, compression
// algorithms, string encodings, and the missing-value sentinels.
package format

import "math"

type (
	FormatType      uint8
	Mode            uint8
	CompressionType uint8
	Encoding        uint8
)

const (
	// FormatRDS is a single-object serialization stream (saveRDS).
	FormatRDS FormatType = 0x1
	// FormatRData is a multi-object workspace stream (save), framed by an
	// RDA2/RDX2/RDB2 style magic line.
	FormatRData FormatType = 0x2
)

const (
	// ModeXDR is the big-endian binary wire mode ("X\n" marker).
	ModeXDR Mode = 0x1
	// ModeBinary is the native-order binary wire mode ("B\n" marker),
	// read as little endian.
	ModeBinary Mode = 0x2
	// ModeASCII is the text wire mode ("A\n" marker): whitespace-separated
	// decimal and escaped-string tokens.
	ModeASCII Mode = 0x3
)

const (
	CompressionNone  CompressionType = 0x1
	CompressionGzip  CompressionType = 0x2
	CompressionBzip2 CompressionType = 0x3
	CompressionXZ    CompressionType = 0x4
	CompressionZstd  CompressionType = 0x5
)

const (
	// EncodingNative marks a string carrying the writer's native charset.
	EncodingNative Encoding = 0x1
	EncodingUTF8   Encoding = 0x2
	EncodingLatin1 Encoding = 0x3
	// EncodingBytes marks an uninterpreted byte string.
	EncodingBytes Encoding = 0x4
	// EncodingASCII marks a string the writer asserted to be pure ASCII.
	EncodingASCII Encoding = 0x5
)

// Serialization format versions this decoder implements. Version 1 streams
// predate R 2.4 and are rejected; version 3 adds ALTREP records and the
// native-encoding header field.
const (
	MinVersion = 2
	MaxVersion = 3
)

// NAInteger is the missing-value sentinel shared by integer and logical
// vectors on the wire.
const NAInteger int32 = math.MinInt32

// NARealBits is the exact bit pattern of the real missing-value sentinel:
// a quiet NaN whose low word is 1954. Other NaN payloads are legal data and
// must not be treated as missing.
const NARealBits uint64 = 0x7FF00000000007A2

// NAReal returns the real missing-value sentinel.
func NAReal() float64 {
	return math.Float64frombits(NARealBits)
}

// IsNAReal reports whether v is the missing-value sentinel, by exact bit
// pattern.
func IsNAReal(v float64) bool {
	return math.Float64bits(v) == NARealBits
}

func (f FormatType) String() string {
	switch f {
	case FormatRDS:
		return "RDS"
	case FormatRData:
		return "RData"
	default:
		return "Unknown"
	}
}

func (m Mode) String() string {
	switch m {
	case ModeXDR:
		return "XDR"
	case ModeBinary:
		return "Binary"
	case ModeASCII:
		return "ASCII"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionBzip2:
		return "Bzip2"
	case CompressionXZ:
		return "XZ"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingNative:
		return "Native"
	case EncodingUTF8:
		return "UTF-8"
	case EncodingLatin1:
		return "Latin-1"
	case EncodingBytes:
		return "Bytes"
	case EncodingASCII:
		return "ASCII"
	default:
		return "Unknown"
	}
}
