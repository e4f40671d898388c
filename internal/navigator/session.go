package navigator

// Session is the per-client state linking an uploaded dataset to a row pointer.
// The zero value means no dataset has been uploaded yet.
type Session struct {
	DatasetID string `json:"dataset_id,omitempty"`
	Index     int    `json:"index"`
}

// HasDataset reports whether the session points at an uploaded dataset
func (s Session) HasDataset() bool {
	return s.DatasetID != ""
}

// Reset returns the session state following a successful upload of id.
// Whatever the previous session pointed at is discarded.
func Reset(id string) Session {
	return Session{DatasetID: id, Index: 0}
}
