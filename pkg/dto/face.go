package dto

// FaceResponse describes one face object with its decoded metadata.
type FaceResponse struct {
	Key      string `json:"key"`
	Name     string `json:"name,omitempty"`
	Original string `json:"original"`
	URL      string `json:"url"`
}

type FaceListResponse struct {
	Faces []FaceResponse `json:"faces"`
	Total int            `json:"total"`
}

// UploadResponse is returned after a photo upload is stored and its
// detection trigger is enqueued.
type UploadResponse struct {
	Key string `json:"key"`
}

// WSEvent is a WebSocket message for real-time face lifecycle delivery.
type WSEvent struct {
	Type      string `json:"type"` // face_cut, face_presented, face_labeled
	FaceKey   string `json:"face_key"`
	SourceKey string `json:"source_key,omitempty"`
	Name      string `json:"name,omitempty"`
}
