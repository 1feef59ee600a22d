// SPDX-License-Identifier: Apache-2.0

package generator

import "errors"

var (
	errEmptyCommand      = errors.New("command side effect has no executable")
	errUnknownSideEffect = errors.New("unknown side effect")
)
