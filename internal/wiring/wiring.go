// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cirun/internal/adapters/actions"
	_ "go.trai.ch/cirun/internal/adapters/cache"
	_ "go.trai.ch/cirun/internal/adapters/config"
	_ "go.trai.ch/cirun/internal/adapters/fs"
	_ "go.trai.ch/cirun/internal/adapters/logger"
	_ "go.trai.ch/cirun/internal/adapters/shell"
	// Register app nodes.
	_ "go.trai.ch/cirun/internal/app"
)
