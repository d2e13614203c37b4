package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cirun/internal/adapters/actions" //nolint:depguard // Wired in app layer
	"go.trai.ch/cirun/internal/adapters/cache"   //nolint:depguard // Wired in app layer
	"go.trai.ch/cirun/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/cirun/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/cirun/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/cirun/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/cirun/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.HasherNodeID,
			shell.NodeID,
			cache.NodeID,
			actions.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	stores, err := graft.Dep[ports.CacheStoreFactory](ctx)
	if err != nil {
		return nil, err
	}

	workflow, err := graft.Dep[ports.Workflow](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, hasher, executor, stores, workflow, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
