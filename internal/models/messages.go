package models

// Metadata keys on face objects. Once a face object exists, Original is
// always present; Name and correlation id are written later by the bot.
const (
	MetaOriginal    = "Original"
	MetaName        = "Name"
	MetaCorrelation = "Tg-Unique-Id"
)

// Rectangle is a face bounding box in pixel coordinates: [x, y, width, height].
// It marshals as a JSON array to stay wire-compatible with the queue format.
type Rectangle [4]int

func (r Rectangle) X() int      { return r[0] }
func (r Rectangle) Y() int      { return r[1] }
func (r Rectangle) Width() int  { return r[2] }
func (r Rectangle) Height() int { return r[3] }

// PhotoStored is the detection trigger published when a new photo lands in
// the photo bucket.
type PhotoStored struct {
	Bucket string `json:"bucket_id"`
	Key    string `json:"object_id"`
}

// FaceCutTask is the work item published to NATS for the cutter: one face
// rectangle to crop out of one source photo.
type FaceCutTask struct {
	SourceKey string    `json:"source_key"`
	Rect      Rectangle `json:"face_rectangle"`
}

// Face lifecycle event types.
const (
	EventFaceCut       = "face_cut"
	EventFacePresented = "face_presented"
	EventFaceLabeled   = "face_labeled"
)

// FaceEvent is a lifecycle notification published to the EVENTS stream and
// fanned out to WebSocket clients.
type FaceEvent struct {
	Type      string `json:"type"`
	FaceKey   string `json:"face_key"`
	SourceKey string `json:"source_key,omitempty"`
	Name      string `json:"name,omitempty"`
}
