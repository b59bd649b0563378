// SPDX-License-Identifier: MIT

package converters

import (
	"log/slog"

	"github.com/katalvlaran/lvsparse/sparse"
)

// Logger is used when no WithLogger option is given. It discards output;
// replace it (or pass WithLogger) to observe imports.
var Logger = slog.New(slog.DiscardHandler)

// logImport records a finished import and what compaction dropped.
func logImport(l *slog.Logger, class string, m *sparse.CSC, stats sparse.BuildStats) {
	l.Debug("import completed",
		"class", class,
		"rows", m.Rows(),
		"cols", m.Cols(),
		"nnz", m.NNZ(),
		"input", stats.Input,
	)
	if stats.Duplicates > 0 {
		l.Debug("duplicates merged",
			"class", class,
			"duplicates", stats.Duplicates,
		)
	}
	if stats.Zeros > 0 {
		l.Debug("zeros dropped",
			"class", class,
			"zeros", stats.Zeros,
		)
	}
}
