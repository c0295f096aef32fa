package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dnawave/dnawave/pkg/protocol"
	_ "github.com/mattn/go-sqlite3"
)

func newTestStore(t *testing.T, maxJobs int) *JobStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewJobStore(dbPath, maxJobs)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testJob(kind string, ts time.Time) protocol.Job {
	return protocol.Job{
		Timestamp:       ts,
		Kind:            kind,
		Input:           "ATGCATGC",
		OutputPath:      "/tmp/out.wav",
		SequenceLength:  8,
		ErrorsCorrected: 0,
		Status:          "Encoded",
	}
}

func TestNewJobStore(t *testing.T) {
	t.Run("Valid Store Creation", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "jobs.db")
		store, err := NewJobStore(dbPath, 1000)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		defer store.Close()

		if store.dbPath != dbPath {
			t.Errorf("Expected dbPath %s, got %s", dbPath, store.dbPath)
		}
		if store.maxJobs != 1000 {
			t.Errorf("Expected maxJobs 1000, got %d", store.maxJobs)
		}

		// Verify database file was created
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("Expected database file to be created")
		}
	})

	t.Run("Store Creation with Nested Directory", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "jobs.db")
		store, err := NewJobStore(dbPath, 500)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		defer store.Close()

		if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
			t.Error("Expected nested directory to be created")
		}
	})
}

func TestStoreJob(t *testing.T) {
	store := newTestStore(t, 1000)

	t.Run("Store Encode Job", func(t *testing.T) {
		id, err := store.StoreJob(testJob(protocol.JobEncode, time.Now()))
		if err != nil {
			t.Fatalf("Failed to store job: %v", err)
		}
		if id <= 0 {
			t.Errorf("Expected positive job ID, got %d", id)
		}
	})

	t.Run("Store Decode Job", func(t *testing.T) {
		job := protocol.Job{
			Timestamp:       time.Now(),
			Kind:            protocol.JobDecode,
			Input:           "/tmp/recording.wav",
			SequenceLength:  4096,
			ErrorsCorrected: 3,
			Status:          "Verified (3 errors corrected)",
		}
		id, err := store.StoreJob(job)
		if err != nil {
			t.Fatalf("Failed to store job: %v", err)
		}

		stored, err := store.GetJob(int(id))
		if err != nil {
			t.Fatalf("Failed to get job back: %v", err)
		}
		if stored.Kind != protocol.JobDecode {
			t.Errorf("Expected kind decode, got %s", stored.Kind)
		}
		if stored.ErrorsCorrected != 3 {
			t.Errorf("Expected 3 errors corrected, got %d", stored.ErrorsCorrected)
		}
		if stored.Status != "Verified (3 errors corrected)" {
			t.Errorf("Unexpected status: %s", stored.Status)
		}
	})

	t.Run("Invalid Kind Rejected", func(t *testing.T) {
		if _, err := store.StoreJob(testJob("transcode", time.Now())); err == nil {
			t.Error("Expected error for unknown job kind, got nil")
		}
	})
}

func TestGetJobs(t *testing.T) {
	store := newTestStore(t, 1000)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		kind := protocol.JobEncode
		if i%2 == 1 {
			kind = protocol.JobDecode
		}
		job := testJob(kind, base.Add(time.Duration(i)*time.Minute))
		job.Input = fmt.Sprintf("sequence-%d", i)
		if _, err := store.StoreJob(job); err != nil {
			t.Fatalf("Failed to store job %d: %v", i, err)
		}
	}

	t.Run("All Jobs Newest First", func(t *testing.T) {
		jobs, err := store.GetJobs(JobQuery{})
		if err != nil {
			t.Fatalf("Failed to get jobs: %v", err)
		}
		if len(jobs) != 5 {
			t.Fatalf("Expected 5 jobs, got %d", len(jobs))
		}
		if jobs[0].Input != "sequence-4" {
			t.Errorf("Expected newest job first, got %s", jobs[0].Input)
		}
		if jobs[4].Input != "sequence-0" {
			t.Errorf("Expected oldest job last, got %s", jobs[4].Input)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		jobs, err := store.GetJobs(JobQuery{Limit: 2})
		if err != nil {
			t.Fatalf("Failed to get jobs: %v", err)
		}
		if len(jobs) != 2 {
			t.Errorf("Expected 2 jobs, got %d", len(jobs))
		}
	})

	t.Run("Filter by Kind", func(t *testing.T) {
		jobs, err := store.GetJobs(JobQuery{Kind: protocol.JobDecode})
		if err != nil {
			t.Fatalf("Failed to get jobs: %v", err)
		}
		if len(jobs) != 2 {
			t.Fatalf("Expected 2 decode jobs, got %d", len(jobs))
		}
		for _, job := range jobs {
			if job.Kind != protocol.JobDecode {
				t.Errorf("Expected only decode jobs, got %s", job.Kind)
			}
		}
	})

	t.Run("Since Filter", func(t *testing.T) {
		since := base.Add(150 * time.Second)
		jobs, err := store.GetJobs(JobQuery{Since: &since})
		if err != nil {
			t.Fatalf("Failed to get jobs: %v", err)
		}
		if len(jobs) != 2 {
			t.Errorf("Expected 2 jobs since cutoff, got %d", len(jobs))
		}
	})
}

func TestJobCleanup(t *testing.T) {
	store := newTestStore(t, 3)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		job := testJob(protocol.JobEncode, base.Add(time.Duration(i)*time.Minute))
		job.Input = fmt.Sprintf("sequence-%d", i)
		if _, err := store.StoreJob(job); err != nil {
			t.Fatalf("Failed to store job %d: %v", i, err)
		}
	}

	count, err := store.GetJobCount()
	if err != nil {
		t.Fatalf("Failed to count jobs: %v", err)
	}
	if count > 3 {
		t.Errorf("Expected cleanup to cap jobs at 3, got %d", count)
	}

	// The survivors must be the newest jobs.
	jobs, err := store.GetJobs(JobQuery{})
	if err != nil {
		t.Fatalf("Failed to get jobs: %v", err)
	}
	for _, job := range jobs {
		if job.Input == "sequence-0" || job.Input == "sequence-1" {
			t.Errorf("Expected oldest jobs to be cleaned up, found %s", job.Input)
		}
	}
}

func TestGetStats(t *testing.T) {
	store := newTestStore(t, 1000)

	for i := 0; i < 3; i++ {
		if _, err := store.StoreJob(testJob(protocol.JobEncode, time.Now())); err != nil {
			t.Fatalf("Failed to store encode job: %v", err)
		}
	}
	if _, err := store.StoreJob(testJob(protocol.JobDecode, time.Now())); err != nil {
		t.Fatalf("Failed to store decode job: %v", err)
	}

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.TotalJobs != 4 {
		t.Errorf("Expected 4 total jobs, got %d", stats.TotalJobs)
	}
	if stats.TotalEncode != 3 {
		t.Errorf("Expected 3 encode jobs, got %d", stats.TotalEncode)
	}
	if stats.TotalDecode != 1 {
		t.Errorf("Expected 1 decode job, got %d", stats.TotalDecode)
	}
}

func TestGetJobMissing(t *testing.T) {
	store := newTestStore(t, 1000)
	if _, err := store.GetJob(9999); err == nil {
		t.Error("Expected error for missing job, got nil")
	}
}
