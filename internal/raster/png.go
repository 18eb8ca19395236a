// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"math"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ErrNotPNG is returned when SetDensity is given something other than a
// PNG stream.
var ErrNotPNG = errors.New("not a png stream")

// EncodePNG writes img as a best-compression PNG that records dpi in its
// pHYs chunk.
func EncodePNG(w io.Writer, img image.Image, dpi int) error {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	data, err := SetDensity(buf.Bytes(), dpi)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SetDensity returns a copy of the PNG stream with its physical pixel
// density set to dpi. Any existing pHYs chunk is replaced. A non-positive
// dpi returns the input unchanged.
func SetDensity(data []byte, dpi int) ([]byte, error) {
	if dpi <= 0 {
		return data, nil
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}

	out := make([]byte, 0, len(data)+21)
	out = append(out, pngSignature...)

	pos := len(pngSignature)
	inserted := false
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		end := pos + 12 + length
		if length < 0 || end > len(data) {
			return nil, fmt.Errorf("truncated %s chunk", typ)
		}
		chunk := data[pos:end]
		pos = end

		if typ == "pHYs" {
			continue
		}
		out = append(out, chunk...)
		if typ == "IHDR" && !inserted {
			out = append(out, physChunk(dpi)...)
			inserted = true
		}
	}
	if !inserted {
		return nil, fmt.Errorf("%w: missing IHDR", ErrNotPNG)
	}
	return out, nil
}

// Density reads the pHYs chunk and returns the horizontal resolution in
// dots per inch, or 0 if the stream carries none.
func Density(data []byte) int {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0
	}
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		if pos+12+length > len(data) {
			return 0
		}
		if typ == "pHYs" && length == 9 {
			body := data[pos+8 : pos+8+length]
			if body[8] != 1 {
				return 0
			}
			ppm := binary.BigEndian.Uint32(body[0:4])
			return int(math.Round(float64(ppm) * 0.0254))
		}
		pos += 12 + length
	}
	return 0
}

func physChunk(dpi int) []byte {
	ppm := uint32(math.Round(float64(dpi) / 0.0254))
	body := make([]byte, 9)
	binary.BigEndian.PutUint32(body[0:4], ppm)
	binary.BigEndian.PutUint32(body[4:8], ppm)
	body[8] = 1 // unit: metre

	chunk := make([]byte, 0, 21)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(body)))
	chunk = append(chunk, "pHYs"...)
	chunk = append(chunk, body...)
	crc := crc32.NewIEEE()
	crc.Write(chunk[4:])
	return binary.BigEndian.AppendUint32(chunk, crc.Sum32())
}
