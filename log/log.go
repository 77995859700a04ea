// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log is the airlock core's logging facade. Every component
// accepts a log.Logger via constructor injection; nothing in this
// module reaches for a package-level global logger.
package log

import "github.com/luxfi/log"

// Logger is the interface every airlock component logs through.
type Logger = log.Logger
