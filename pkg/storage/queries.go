package storage

import (
	"time"

	"github.com/dnawave/dnawave/pkg/protocol"
)

// JobQuery represents query parameters for retrieving jobs
type JobQuery struct {
	Limit  int
	Offset int
	Since  *time.Time
	Kind   string // "encode", "decode", or "" for both
}

// JobStats represents database statistics
type JobStats struct {
	TotalJobs   int       `json:"total_jobs"`
	TotalEncode int       `json:"total_encode"`
	TotalDecode int       `json:"total_decode"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// GetJobs retrieves jobs based on query parameters, newest first
func (js *JobStore) GetJobs(query JobQuery) ([]protocol.Job, error) {
	var args []interface{}

	sqlQuery := `
		SELECT id, timestamp, kind, input, output_path,
			   sequence_length, errors_corrected, status
		FROM jobs
		WHERE 1=1
	`

	if query.Since != nil {
		sqlQuery += " AND timestamp >= ?"
		args = append(args, query.Since)
	}

	if query.Kind != "" {
		sqlQuery += " AND kind = ?"
		args = append(args, query.Kind)
	}

	sqlQuery += " ORDER BY timestamp DESC"

	if query.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, query.Limit)

		if query.Offset > 0 {
			sqlQuery += " OFFSET ?"
			args = append(args, query.Offset)
		}
	}

	rows, err := js.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []protocol.Job
	for rows.Next() {
		var job protocol.Job
		if err := rows.Scan(
			&job.ID, &job.Timestamp, &job.Kind, &job.Input, &job.OutputPath,
			&job.SequenceLength, &job.ErrorsCorrected, &job.Status,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// GetJob retrieves a single job by ID
func (js *JobStore) GetJob(id int) (*protocol.Job, error) {
	var job protocol.Job
	err := js.db.QueryRow(`
		SELECT id, timestamp, kind, input, output_path,
			   sequence_length, errors_corrected, status
		FROM jobs WHERE id = ?
	`, id).Scan(
		&job.ID, &job.Timestamp, &job.Kind, &job.Input, &job.OutputPath,
		&job.SequenceLength, &job.ErrorsCorrected, &job.Status,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobCount returns the current number of stored jobs
func (js *JobStore) GetJobCount() (int, error) {
	var count int
	err := js.db.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count)
	return count, err
}

// GetStats retrieves the accumulated job statistics
func (js *JobStore) GetStats() (*JobStats, error) {
	var stats JobStats
	var lastCleanup *time.Time

	err := js.db.QueryRow(`
		SELECT total_jobs, total_encode, total_decode, last_cleanup
		FROM job_stats WHERE id = 1
	`).Scan(&stats.TotalJobs, &stats.TotalEncode, &stats.TotalDecode, &lastCleanup)
	if err != nil {
		return nil, err
	}

	if lastCleanup != nil {
		stats.LastCleanup = *lastCleanup
	}
	return &stats, nil
}
