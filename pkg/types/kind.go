// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported conversions.
type Kind string

const (
	KindPNGToSVG Kind = "png2svg"
	KindSVGToPNG Kind = "svg2png"
	KindSVGToPDF Kind = "svg2pdf"
	KindPDFToPNG Kind = "pdf2png"
)

// Kinds lists every supported conversion in menu order.
var Kinds = []Kind{KindPNGToSVG, KindSVGToPNG, KindSVGToPDF, KindPDFToPNG}

// ParseKind accepts the canonical names plus the underscore spellings
// ("png_to_svg") used by older batch scripts.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_to_", "2")
	for _, k := range Kinds {
		if string(k) == norm {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown conversion type %q (want one of png2svg, svg2png, svg2pdf, pdf2png)", s)
}

// InputExt returns the file extension, with leading dot, that the
// conversion reads.
func (k Kind) InputExt() string {
	switch k {
	case KindPNGToSVG:
		return ".png"
	case KindSVGToPNG, KindSVGToPDF:
		return ".svg"
	case KindPDFToPNG:
		return ".pdf"
	}
	return ""
}

// OutputExt returns the file extension, with leading dot, that the
// conversion writes.
func (k Kind) OutputExt() string {
	switch k {
	case KindPNGToSVG:
		return ".svg"
	case KindSVGToPNG, KindPDFToPNG:
		return ".png"
	case KindSVGToPDF:
		return ".pdf"
	}
	return ""
}

// DefaultOutputDir is the directory used when a pattern is converted
// without an explicit output location.
func (k Kind) DefaultOutputDir() string {
	switch k.OutputExt() {
	case ".svg":
		return "svg_output"
	case ".pdf":
		return "pdf_output"
	default:
		return "png_output"
	}
}

// Label is the human-readable arrow form, e.g. "PNG -> SVG".
func (k Kind) Label() string {
	in := strings.ToUpper(strings.TrimPrefix(k.InputExt(), "."))
	out := strings.ToUpper(strings.TrimPrefix(k.OutputExt(), "."))
	return in + " -> " + out
}
