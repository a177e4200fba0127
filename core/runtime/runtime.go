package runtime

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/growthsystem/erpchat/core/application/services"
	"github.com/growthsystem/erpchat/core/config"
	"github.com/growthsystem/erpchat/core/domain/interfaces"
	"github.com/growthsystem/erpchat/core/guard"
	"github.com/growthsystem/erpchat/core/infrastructure/connectors"
	"github.com/growthsystem/erpchat/core/infrastructure/logging"
	"github.com/growthsystem/erpchat/core/infrastructure/memory"
	"github.com/growthsystem/erpchat/core/infrastructure/permissions"
	transport "github.com/growthsystem/erpchat/core/infrastructure/transport/http"
	"github.com/growthsystem/erpchat/core/render"
)

// Runtime wires the assistant service, guard, renderer and backing stores
// into a runnable server.
type Runtime struct {
	cfg     *config.Config
	store   interfaces.RowStore
	history memory.Store
	guard   *guard.Guard
	server  *transport.Server
	log     logging.Logger
}

// New initializes all backends and builds the runtime. The row store and
// conversation store connect in parallel; if either fails, everything
// already opened is closed again.
func New(cfg *config.Config) (*Runtime, error) {
	log := logging.New("runtime")

	rt := &Runtime{cfg: cfg, log: log}

	g, _ := errgroup.WithContext(context.Background())

	g.Go(func() error {
		log.Infof("Connecting %s row store", cfg.Database.Connector)
		store, err := connectors.New(cfg.Database.Connector, cfg.Database.ConnectionString)
		if err != nil {
			return err
		}
		rt.store = store
		return nil
	})

	g.Go(func() error {
		if cfg.Memory.RedisURL == "" {
			log.Info("Using in-process conversation store")
			rt.history = memory.NewInProcessStore(cfg.Memory.Window, cfg.Memory.TTL)
			return nil
		}
		log.Info("Connecting Redis conversation store")
		history, err := memory.NewRedisStore(cfg.Memory.RedisURL, cfg.Memory.Window, cfg.Memory.TTL)
		if err != nil {
			return err
		}
		rt.history = history
		return nil
	})

	if err := g.Wait(); err != nil {
		rt.closeStores()
		return nil, err
	}

	oracle := permissions.NewStaticOracle(cfg.Permissions.Read, cfg.Permissions.Create)
	rt.guard = guard.New(policyFromConfig(cfg), oracle, rt.store)

	renderer := render.New(render.Options{FuzzyLoopKeys: cfg.FuzzyLoopKeys()})
	assistant := services.NewAssistant(rt.guard, renderer)

	rt.server = transport.NewServer(cfg.HTTP.Port)
	handlers := transport.NewHandlers(assistant, rt.guard, rt.history, cfg.Memory.Window)
	transport.RegisterRoutes(rt.server.Router(), handlers)

	return rt, nil
}

// Start runs the server until the context is cancelled or a termination
// signal arrives.
func (rt *Runtime) Start(ctx context.Context) error {
	if err := rt.server.Start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		rt.log.Infof("Received signal %s, shutting down", sig)
	case <-ctx.Done():
	}

	return rt.Shutdown()
}

// ApplyConfig applies a reloaded configuration. Only the guard policy is
// hot-swappable; connection and renderer changes need a restart.
func (rt *Runtime) ApplyConfig(cfg *config.Config) {
	rt.guard.SetPolicy(policyFromConfig(cfg))
	rt.log.Info("Guard policy updated")
}

// Shutdown stops the server and closes all backends.
func (rt *Runtime) Shutdown() error {
	err := rt.server.Stop()
	rt.closeStores()
	return err
}

func (rt *Runtime) closeStores() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.log.Errorf("Error closing row store: %v", err)
		}
	}
	if rt.history != nil {
		if err := rt.history.Close(); err != nil {
			rt.log.Errorf("Error closing conversation store: %v", err)
		}
	}
}

func policyFromConfig(cfg *config.Config) guard.Policy {
	return guard.NewPolicy(cfg.Guard.AllowedInsertEntities, cfg.Guard.ReservedFields)
}
