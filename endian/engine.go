// Package endian provides byte order utilities for the binary wire modes.
//
// It combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface so one engine value can be threaded through readers that
// need either capability. The XDR wire mode is big endian; the native-binary
// wire mode is read little endian.
package endian

import "encoding/binary"

// EndianEngine combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary. It is satisfied by binary.BigEndian and
// binary.LittleEndian, keeping the engine fully compatible with standard
// library code.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the engine for XDR streams.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the engine for native-binary streams.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
