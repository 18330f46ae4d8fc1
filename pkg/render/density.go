package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"
)

// ErrNotPNG is returned when encoder output does not start with a PNG header chunk.
var ErrNotPNG = errors.New("not a PNG stream")

const (
	metersPerInch = 0.0254

	chunkLenSize  = 4
	chunkTypeSize = 4
	chunkCRCSize  = 4
	physDataSize  = 9
	physUnitMeter = 1
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// PixelsPerMeter converts a resolution in dots per inch to the unit PNG stores.
func PixelsPerMeter(dpi int) uint32 {
	return uint32(math.Round(float64(max(dpi, 0)) / metersPerInch))
}

// withDensity returns data with a pHYs chunk recording dpi inserted after IHDR.
// image/png never writes one, so the output holds exactly one.
func withDensity(data []byte, dpi int) ([]byte, error) {
	headerStart := len(pngSignature)
	if len(data) < headerStart+chunkLenSize+chunkTypeSize || !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}

	typeStart := headerStart + chunkLenSize
	if string(data[typeStart:typeStart+chunkTypeSize]) != "IHDR" {
		return nil, ErrNotPNG
	}

	headerLen := int(binary.BigEndian.Uint32(data[headerStart:typeStart]))

	split := typeStart + chunkTypeSize + headerLen + chunkCRCSize
	if split > len(data) {
		return nil, ErrNotPNG
	}

	ppm := PixelsPerMeter(dpi)

	chunk := make([]byte, 0, chunkLenSize+chunkTypeSize+physDataSize+chunkCRCSize)
	chunk = binary.BigEndian.AppendUint32(chunk, physDataSize)
	chunk = append(chunk, "pHYs"...)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = append(chunk, physUnitMeter)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[chunkLenSize:]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:split]...)
	out = append(out, chunk...)
	out = append(out, data[split:]...)

	return out, nil
}
