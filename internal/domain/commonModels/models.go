package commonModels

// DocumentRef identifies an uploaded course document. Path is the unique
// storage key, the path the upload was saved under.
type DocumentRef struct {
	Path     string `json:"file_path"`
	CourseID int    `json:"course_id"`
	Active   bool   `json:"is_active"`
}

// Segment is a span of extracted document text, the unit of retrieval.
type Segment struct {
	ID           int64  `json:"id"`
	DocumentPath string `json:"document_id"`
	CourseID     int    `json:"course_id"`
	Text         string `json:"text"`
}

// RetrievedSegment is the projection handed to prompt assembly.
type RetrievedSegment struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	DocumentID string `json:"document_id"`
}

// NearestMatch is a vector store hit, Distance is the L2 distance to the query.
type NearestMatch struct {
	SegmentID  int64   `json:"segment_id"`
	Text       string  `json:"text"`
	DocumentID string  `json:"document_id"`
	Distance   float64 `json:"distance"`
}

func (m NearestMatch) ToRetrievedSegment() RetrievedSegment {
	return RetrievedSegment{
		ID:         m.SegmentID,
		Text:       m.Text,
		DocumentID: m.DocumentID,
	}
}
