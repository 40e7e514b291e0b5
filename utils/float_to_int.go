// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 clamps x to [-1, 1] and scales it to 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	return int16(Float32ToInt(x, 16))
}

// FullScale returns the magnitude of the most negative sample of signed PCM
// with the given bit depth. Unknown depths are treated as 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// IntToFloat32 normalizes a signed PCM sample to [-1, 1).
func IntToFloat32(v, bitDepth int) float32 {
	return float32(v) / FullScale(bitDepth)
}

// Float32ToInt clamps x to [-1, 1] and scales it to signed PCM of the given
// bit depth. The positive peak maps to the largest positive value.
func Float32ToInt(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int(float64(x) * (float64(FullScale(bitDepth)) - 1))
}
