// Package wire provides dependency injection for the btevta application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/btevta/internal/adapters/cli"
	"github.com/example/btevta/internal/adapters/sqlite"
	"github.com/example/btevta/internal/app"
	"github.com/example/btevta/internal/config"
	"github.com/example/btevta/internal/db"
	"github.com/example/btevta/internal/logging"
	"github.com/example/btevta/internal/ports/primary"
)

var (
	cfg              = config.Default()
	logger           *zap.Logger
	database         *sql.DB
	lifecycleService primary.LifecycleService
	once             sync.Once
)

// Configure sets the configuration used to build services.
// Must be called before the first service is requested.
func Configure(c *config.Config) {
	cfg = c
	if c.DBPath != "" {
		db.SetPath(c.DBPath)
	}
}

// Config returns the active configuration.
func Config() *config.Config {
	return cfg
}

// LifecycleService returns the singleton LifecycleService instance.
func LifecycleService() primary.LifecycleService {
	once.Do(initServices)
	return lifecycleService
}

// Logger returns the singleton logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// Database returns the initialized database connection.
func Database() *sql.DB {
	once.Do(initServices)
	return database
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	logger, err = logging.NewLogger(cfg.LogLevel, cfg.LogFormat, "btevta")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// Get database connection
	database, err = db.GetDB()
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	// Transaction-bound repositories come from the unit of work; these serve plain reads.
	repos := sqlite.NewRepositories(database)
	uow := sqlite.NewUnitOfWork(database)

	lifecycleService = app.NewLifecycleService(uow, repos, logger, app.LifecycleOptions{
		IssuingAuthority: cfg.IssuingAuthority,
		PassPercentage:   cfg.PassPercentage,
	})
}

// DemoSeeder returns a new DemoSeeder driving the lifecycle service.
func DemoSeeder() *app.DemoSeeder {
	once.Do(initServices)
	return app.NewDemoSeeder(lifecycleService, logger, nil)
}

// CandidateAdapter returns a new CandidateAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func CandidateAdapter() *cliadapter.CandidateAdapter {
	return CandidateAdapterWithOutput(os.Stdout)
}

// CandidateAdapterWithOutput returns a new CandidateAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func CandidateAdapterWithOutput(out io.Writer) *cliadapter.CandidateAdapter {
	once.Do(initServices)
	return cliadapter.NewCandidateAdapter(lifecycleService, out)
}
