package ecc

import (
	"hash/crc32"

	"Linksim/pkg/bitcodec"
)

const CRC32Bits = 32

type CRC32Checker struct {
	Table *crc32.Table // nil means the IEEE table (0xEDB88320)
}

// Calculate returns the big-endian checksum bits of the payload, zero padded
// to a whole byte for the computation only.
func (c CRC32Checker) Calculate(inputBits []bool) []bool {
	table := c.Table
	if table == nil {
		table = crc32.IEEETable
	}
	data, _ := bitcodec.ToBytes(bitcodec.PadBytes(inputBits))
	return bitcodec.Uint(uint64(crc32.Checksum(data, table)), CRC32Bits)
}

func (c CRC32Checker) Append(inputBits []bool) []bool {
	out := make([]bool, 0, len(inputBits)+CRC32Bits)
	out = append(out, inputBits...)
	return append(out, c.Calculate(inputBits)...)
}

func (c CRC32Checker) Check(inputBits []bool) bool {
	if len(inputBits) < CRC32Bits {
		return false
	}
	split := len(inputBits) - CRC32Bits
	received := bitcodec.ReadUint(inputBits[split:])
	return bitcodec.ReadUint(c.Calculate(inputBits[:split])) == received
}

func AddCRC32(bits []bool) []bool {
	return CRC32Checker{}.Append(bits)
}

func CheckCRC32(bits []bool) bool {
	return CRC32Checker{}.Check(bits)
}
