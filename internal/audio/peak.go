package audio

import "encoding/binary"

// maxSampleValue is the magnitude of the most negative 16-bit sample.
const maxSampleValue = 32768.0

// PeakS16LE returns the largest absolute sample in interleaved signed
// 16-bit little-endian PCM, normalized to 0.0..1.0. A trailing odd byte is
// ignored.
func PeakS16LE(buf []byte) float64 {
	var peak int32
	for i := 0; i+1 < len(buf); i += 2 {
		s := int32(int16(binary.LittleEndian.Uint16(buf[i:])))
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}

	return float64(peak) / maxSampleValue
}
