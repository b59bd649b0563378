// SPDX-License-Identifier: MIT

package converters

import (
	"fmt"

	"github.com/katalvlaran/lvsparse/sparse"
)

// Sentinels re-exported from sparse so callers can match on this package alone.
var (
	ErrUnsupportedFormat   = sparse.ErrUnsupportedFormat
	ErrStructuralAssertion = sparse.ErrStructuralAssertion
	ErrIndexOutOfBounds    = sparse.ErrIndexOutOfBounds
	ErrNilMatrix           = sparse.ErrNilMatrix
)

// importErrorf wraps err with the record class.
func importErrorf(class string, err error) error {
	return fmt.Errorf("converters: Import %q: %w", class, err)
}

// slotErrorf reports a slot layout violation as ErrStructuralAssertion.
func slotErrorf(class, format string, args ...any) error {
	return fmt.Errorf("converters: Import %q: %s: %w", class, fmt.Sprintf(format, args...), ErrStructuralAssertion)
}
