package sht4x

// crc8 computes the Sensirion CRC (poly 0x31, init 0xFF, no reflection)
// over a data word. Every 2-byte word in a reply carries one.
func crc8(data []byte) byte {
	var crc byte = 0xFF
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ 0x31
			}
		}
	}
	return crc
}
