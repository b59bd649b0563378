// SPDX-License-Identifier: MIT

package eigs

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Which selects the wanted end of the spectrum.
type Which uint8

const (
	LargestMagnitude  Which = iota // "lm"
	SmallestMagnitude              // "sm"
	LargestReal                    // "la" or "lr"
	SmallestReal                   // "sa" or "sr"
	LargestImag                    // "li", by |imag|
	SmallestImag                   // "si", by |imag|
)

var whichNames = map[string]Which{
	"lm": LargestMagnitude,
	"sm": SmallestMagnitude,
	"la": LargestReal,
	"lr": LargestReal,
	"sa": SmallestReal,
	"sr": SmallestReal,
	"li": LargestImag,
	"si": SmallestImag,
}

// ParseWhich maps a two-letter selection name (case-insensitive) to a Which.
func ParseWhich(s string) (Which, error) {
	if w, ok := whichNames[strings.ToLower(s)]; ok {
		return w, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownWhich, s)
}

func (w Which) String() string {
	switch w {
	case LargestMagnitude:
		return "lm"
	case SmallestMagnitude:
		return "sm"
	case LargestReal:
		return "lr"
	case SmallestReal:
		return "sr"
	case LargestImag:
		return "li"
	case SmallestImag:
		return "si"
	}

	return fmt.Sprintf("which(%d)", uint8(w))
}

func (w Which) valid() bool { return w <= SmallestImag }

// symmetric reports whether the rule is defined for real spectra.
func (w Which) symmetric() bool { return w <= SmallestReal }

// score ranks θ: larger is more wanted. Conjugates score equally.
func (w Which) score(theta complex128) float64 {
	switch w {
	case LargestMagnitude:
		return cmplx.Abs(theta)
	case SmallestMagnitude:
		return -cmplx.Abs(theta)
	case LargestReal:
		return real(theta)
	case SmallestReal:
		return -real(theta)
	case LargestImag:
		return math.Abs(imag(theta))
	default:
		return -math.Abs(imag(theta))
	}
}
