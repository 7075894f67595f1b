package entity

import (
	"encoding/json"
	"time"
)

// DLQJob is the Mongo audit record for a fanout job that exhausted its
// retries. Written for operators; nothing in the serving path reads it back.
type DLQJob struct {
	JobID      string          `bson:"job_id" json:"job_id"`
	Type       string          `bson:"type" json:"type"`
	Payload    json.RawMessage `bson:"payload" json:"payload"`
	ErrorMsg   string          `bson:"error_msg" json:"error_msg"`
	RetryCount int             `bson:"retry_count" json:"retry_count"`
	CreatedAt  time.Time       `bson:"created_at" json:"created_at"`
	FailedAt   time.Time       `bson:"failed_at" json:"failed_at"`
}
