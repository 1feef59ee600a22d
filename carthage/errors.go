// SPDX-License-Identifier: Apache-2.0

package carthage

import "errors"

var errDependenciesNotFound = errors.New("no Carthage build products found, build them first, e.g.: `carthage bootstrap --use-xcframeworks`")
