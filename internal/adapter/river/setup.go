package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riversqlite"
	"github.com/riverqueue/river/rivermigrate"
)

// Setup creates a River client with every engine worker registered and runs
// River's internal migrations. The caller must call client.Start() to begin
// processing jobs and client.Stop() for graceful shutdown.
func Setup(ctx context.Context, db *sql.DB, handlers Handlers) (*Client, error) {
	driver := riversqlite.New(db)

	// Run River's own migrations (creates river_job, river_leader, etc.).
	// These are separate from the app's goose migrations.
	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		return nil, fmt.Errorf("creating river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return nil, fmt.Errorf("running river migrations: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &ApplyWorker{handler: handlers.Apply})
	river.AddWorker(workers, &UpdateStateWorker{handler: handlers.UpdateState})
	river.AddWorker(workers, &DisableWorker{handler: handlers.Disable})
	river.AddWorker(workers, &RemoveWorker{handler: handlers.Remove})
	river.AddWorker(workers, &CreatedWorker{stateChanged: handlers.StateChanged, listener: handlers.Created})
	river.AddWorker(workers, &UpdatedWorker{stateChanged: handlers.StateChanged, listener: handlers.Updated})
	river.AddWorker(workers, &EndedWorker{stateChanged: handlers.StateChanged, listener: handlers.Ended})
	river.AddWorker(workers, &ProductCreatedWorker{listener: handlers.Product})
	river.AddWorker(workers, &VariantUpdatedWorker{listener: handlers.Variant})

	client, err := river.NewClient(driver, &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 2},
		},
		Workers: workers,
	})
	if err != nil {
		return nil, fmt.Errorf("creating river client: %w", err)
	}

	return client, nil
}
