// Package audit records task mutations for later inspection.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/tasklist/internal/models"
)

// Sink persists audit entries.
type Sink interface {
	WriteAudit(ctx context.Context, action, inputsHash, outcome, taskID string) (*models.AuditEntry, error)
}

// Writer hashes action inputs and hands them to a Sink.
type Writer struct {
	sink Sink
}

// NewWriter creates a new audit writer.
func NewWriter(sink Sink) *Writer {
	return &Writer{sink: sink}
}

// Record writes an audit entry for a state-mutating action.
func (w *Writer) Record(ctx context.Context, action string, inputs interface{}, outcome, taskID string) (*models.AuditEntry, error) {
	return w.sink.WriteAudit(ctx, action, HashInputs(inputs), outcome, taskID)
}

// HashInputs returns the hex SHA256 of the JSON encoding of inputs.
func HashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
