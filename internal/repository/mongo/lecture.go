package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LectureRepository reads indexed lecture content written by the video
// pipeline. Lectures are embedded in documents of the "lecturers"
// collection, with older data living under "courses".
type LectureRepository struct {
	db *mongo.Database
}

// NewLectureRepository creates a lecture repository.
func NewLectureRepository(client *Client) *LectureRepository {
	return &LectureRepository{db: client.Database()}
}

type lectureDoc struct {
	Lectures []struct {
		LectureID     string `bson:"lectureId"`
		LectureTitle  string `bson:"lectureTitle"`
		RawAIMetaData struct {
			Segments []domain.Segment `bson:"segments"`
		} `bson:"rawAiMetaData"`
	} `bson:"lectures"`
}

// GetLecture finds a lecture by id, checking "lecturers" first and falling
// back to "courses".
func (r *LectureRepository) GetLecture(ctx context.Context, lectureID string) (*domain.Lecture, error) {
	for _, collection := range []string{"lecturers", "courses"} {
		lecture, err := r.findIn(ctx, collection, lectureID)
		if err != nil {
			return nil, err
		}
		if lecture != nil {
			return lecture, nil
		}
	}
	return nil, domain.ErrLectureNotFound
}

func (r *LectureRepository) findIn(ctx context.Context, collection, lectureID string) (*domain.Lecture, error) {
	filter := bson.M{"lectures.lectureId": lectureID}
	opts := options.FindOne().SetProjection(bson.M{"lectures.$": 1})

	var doc lectureDoc
	err := r.db.Collection(collection).FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lecture in %s: %w", collection, err)
	}
	if len(doc.Lectures) == 0 {
		return nil, nil
	}

	l := doc.Lectures[0]
	return &domain.Lecture{
		LectureID: l.LectureID,
		Title:     l.LectureTitle,
		Segments:  l.RawAIMetaData.Segments,
	}, nil
}
