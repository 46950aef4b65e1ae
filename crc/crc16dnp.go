// Package crc computes the CRC-16/DNP checksum used to protect ASC frames:
// polynomial 0x3D65, reflected input/output, initial register 0xFFFF, final
// XOR 0xFFFF.
package crc

import "github.com/sigurn/crc16"

var table = crc16.MakeTable(crc16.CRC16_DNP)

// Checksum16DNP returns the CRC-16/DNP checksum of data.
func Checksum16DNP(data []byte) uint16 {
	return crc16.Checksum(data, table)
}
