package e2ee

import "fmt"

// UnpadRandom strips the random trailing padding applied to encrypted
// message payloads before serialization: the final byte gives the pad
// length, 1 through 16.
func UnpadRandom(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("e2ee: cannot unpad empty payload")
	}
	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > 16 || padLen > len(data) {
		return nil, fmt.Errorf("e2ee: invalid padding value: %d", padLen)
	}
	return data[:len(data)-padLen], nil
}

// PadRandomSuffix appends padding in the wire format consumed by
// UnpadRandom. padLen must be 1 through 16; the pad bytes other than the
// final length byte are arbitrary, the final byte is padLen.
func PadRandomSuffix(data []byte, padLen int) ([]byte, error) {
	if padLen < 1 || padLen > 16 {
		return nil, fmt.Errorf("e2ee: invalid padding length: %d", padLen)
	}
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	padded[len(padded)-1] = byte(padLen)
	return padded, nil
}
