// SPDX-License-Identifier: MIT

package eigs

import "log/slog"

// Logger is used when no WithLogger option is given. It discards output.
var Logger = slog.New(slog.DiscardHandler)
