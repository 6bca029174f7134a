package app

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/btevta/internal/adapters/sqlite"
	corecandidate "github.com/example/btevta/internal/core/candidate"
	"github.com/example/btevta/internal/db"
	"github.com/example/btevta/internal/ports/primary"
)

// testNow is the fixed clock used by every service test.
var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type testEnv struct {
	db     *sql.DB
	svc    *LifecycleServiceImpl
	seeder *DemoSeeder
}

// newTestEnv wires a lifecycle service over an in-memory database with the
// authoritative schema and reference fixtures.
func newTestEnv(t *testing.T, opts LifecycleOptions) *testEnv {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	testDB.SetMaxOpenConns(1)
	t.Cleanup(func() { testDB.Close() })

	_, err = testDB.Exec(db.GetSchemaSQL())
	require.NoError(t, err)
	require.NoError(t, db.SeedFixtures(testDB))

	if opts.Now == nil {
		opts.Now = fixedClock
	}
	svc := NewLifecycleService(sqlite.NewUnitOfWork(testDB), sqlite.NewRepositories(testDB), zap.NewNop(), opts)
	return &testEnv{
		db:     testDB,
		svc:    svc,
		seeder: NewDemoSeeder(svc, zap.NewNop(), opts.Now),
	}
}

// createCandidate creates a listed candidate with valid demographics.
func (e *testEnv) createCandidate(t *testing.T, nationalID string) string {
	t.Helper()
	resp, err := e.svc.CreateCandidate(context.Background(), validCreateRequest(nationalID))
	require.NoError(t, err)
	return resp.CandidateID
}

// advanceTo walks a candidate stage by stage to target using demo payloads.
func (e *testEnv) advanceTo(t *testing.T, candidateID string, target corecandidate.Status) {
	t.Helper()
	reached, err := e.seeder.walk(context.Background(), candidateID, 0, target)
	require.NoError(t, err)
	require.Equal(t, target, reached)
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func validCreateRequest(nationalID string) primary.CreateCandidateRequest {
	return primary.CreateCandidateRequest{
		NationalID:  nationalID,
		Name:        "Ali Raza",
		FatherName:  "Muhammad Aslam",
		Gender:      "male",
		DateOfBirth: time.Date(1997, time.July, 2, 0, 0, 0, 0, time.UTC),
		Phone:       "03001234567",
		District:    "Lahore",
		Province:    "Punjab",
	}
}

func ptr[T any](v T) *T { return &v }
