package media

import (
	"context"
	"errors"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 30 * time.Second

// GridFSStore keeps images in a MongoDB GridFS bucket
type GridFSStore struct {
	db     *mongo.Database
	bucket string
}

// NewGridFSStore creates a GridFSStore over db using the "images" bucket
func NewGridFSStore(db *mongo.Database) *GridFSStore {
	return &GridFSStore{db: db, bucket: "images"}
}

// open creates a bucket per call so deadlines never leak between requests
func (s *GridFSStore) open(ctx context.Context) (*gridfs.Bucket, time.Time, error) {
	bucket, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, time.Time{}, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultTimeout)
	}
	return bucket, deadline, nil
}

func (s *GridFSStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	contentType, body, err := sniff(r)
	if err != nil {
		return "", err
	}
	bucket, deadline, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	if err := bucket.SetWriteDeadline(deadline); err != nil {
		return "", err
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "content_type", Value: contentType},
		{Key: "original_name", Value: filename},
	})
	id, err := bucket.UploadFromStream(storedName(filename), body, opts)
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func (s *GridFSStore) Open(ctx context.Context, ref string) (*Object, error) {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, ErrNotFound
	}
	bucket, deadline, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	if err := bucket.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	stream, err := bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	file := stream.GetFile()
	var meta struct {
		ContentType string `bson:"content_type"`
	}
	if file.Metadata != nil {
		_ = bson.Unmarshal(file.Metadata, &meta)
	}
	if meta.ContentType == "" {
		meta.ContentType = "application/octet-stream"
	}
	return &Object{ReadCloser: stream, ContentType: meta.ContentType, Size: file.Length}, nil
}

func (s *GridFSStore) Delete(ctx context.Context, ref string) error {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return ErrNotFound
	}
	bucket, deadline, err := s.open(ctx)
	if err != nil {
		return err
	}
	if err := bucket.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := bucket.Delete(id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
