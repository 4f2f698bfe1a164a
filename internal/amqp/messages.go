package amqp

import (
	"encoding/json"
	"time"
)

// EntryExportMessage is the lightweight queue message for exporting a
// ledger entry to the spreadsheet. It carries only the ID and version;
// the worker fetches the full joined row from the database, so a message
// for a superseded version is detected and skipped.
type EntryExportMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntryExportMessage creates an export message for an entry version.
func NewEntryExportMessage(id, version int64) *EntryExportMessage {
	return &EntryExportMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryExportMessageFromJSON creates a message from JSON bytes
func EntryExportMessageFromJSON(data []byte) (*EntryExportMessage, error) {
	var msg EntryExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
