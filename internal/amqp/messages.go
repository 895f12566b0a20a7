package amqp

import (
	"encoding/json"
	"time"
)

// BatchMirrorMessage asks the worker to mirror one upload batch to the
// spreadsheet. It carries only the batch ID, the worker fetches the rows
// from the database.
type BatchMirrorMessage struct {
	BatchID   string    `json:"batchId"`
	RowCount  int       `json:"rowCount"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBatchMirrorMessage(batchID string, rowCount int) *BatchMirrorMessage {
	return &BatchMirrorMessage{
		BatchID:   batchID,
		RowCount:  rowCount,
		Timestamp: time.Now(),
	}
}

func (m *BatchMirrorMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BatchMirrorMessageFromJSON(data []byte) (*BatchMirrorMessage, error) {
	var msg BatchMirrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
