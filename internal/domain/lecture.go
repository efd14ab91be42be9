package domain

import "context"

// Segment is one topic slice of an indexed lecture video, produced by the
// video-understanding service.
type Segment struct {
	Title   string  `bson:"title" json:"title"`
	Summary string  `bson:"summary" json:"summary"`
	StartS  float64 `bson:"start,omitempty" json:"start,omitempty"`
	EndS    float64 `bson:"end,omitempty" json:"end,omitempty"`
}

// Lecture holds the indexed metadata for one lecture video.
type Lecture struct {
	LectureID string    `bson:"lectureId" json:"lecture_id"`
	Title     string    `bson:"lectureTitle" json:"title"`
	Segments  []Segment `json:"segments"`
}

// LectureRepository looks up indexed lecture content.
type LectureRepository interface {
	// GetLecture returns the lecture with its segments, or
	// ErrLectureNotFound.
	GetLecture(ctx context.Context, lectureID string) (*Lecture, error)
}

// IndexTask describes a video indexing task on the external service.
type IndexTask struct {
	ID      string `json:"id"`
	VideoID string `json:"video_id,omitempty"`
	Status  string `json:"status"`
}

// VideoClient is the TwelveLabs collaborator contract.
type VideoClient interface {
	CreateIndexTask(ctx context.Context, videoURL string) (*IndexTask, error)
	GetTask(ctx context.Context, taskID string) (*IndexTask, error)
}
