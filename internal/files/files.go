package files

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// FileStorage serves test-case payloads that requests reference by object
// name instead of carrying inline.
type FileStorage struct {
	cl     *minio.Client
	Bucket string
}

type Config struct {
	Url      string
	Login    string
	Password string
	Bucket   string
}

func NewFileStorage(cfg Config) (*FileStorage, error) {
	client, err := minio.New(cfg.Url, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.Login, cfg.Password, ""),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create minio client")
	}
	return &FileStorage{cl: client, Bucket: cfg.Bucket}, nil
}

// GetText fetches one object and returns its contents as text.
func (s *FileStorage) GetText(ctx context.Context, name string) (string, error) {
	obj, err := s.cl.GetObject(ctx, s.Bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return "", errors.Wrapf(err, "failed to get object %s", name)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read object %s", name)
	}
	return string(data), nil
}
