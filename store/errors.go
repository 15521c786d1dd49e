// SPDX-License-Identifier: MIT

package store

import "errors"

// ErrKeyMissing is returned by Get when no entry exists for the key.
var ErrKeyMissing = errors.New("store: key missing")
