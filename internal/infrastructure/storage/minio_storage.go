// Package storage guarda los archivos de entregables y adjuntos en MinIO (API S3).
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/uranusgroup/uranus-web/internal/application/ports"
	"github.com/uranusgroup/uranus-web/pkg/config"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

var _ ports.FileStorage = (*MinioStorage)(nil)

// MinioStorage adaptador de ports.FileStorage.
type MinioStorage struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

// NewMinioStorage conecta con MinIO y crea el bucket si no existe.
func NewMinioStorage(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*MinioStorage, error) {
	if log == nil {
		log = logger.Nop()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: cliente: %w", err)
	}
	s := &MinioStorage{client: client, bucket: cfg.Bucket, log: log.Component("storage")}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinioStorage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio: comprobar bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio: crear bucket %s: %w", s.bucket, err)
	}
	s.log.Info().Str("bucket", s.bucket).Msg("bucket creado")
	return nil
}

// Put sube el objeto. size -1 = desconocido (subida multipart).
func (s *MinioStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", key, err)
	}
	return nil
}

// Get abre el objeto; el llamador cierra el ReadCloser.
func (s *MinioStorage) Get(ctx context.Context, key string) (io.ReadCloser, *ports.ObjectInfo, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("minio: get %s: %w", key, err)
	}
	// GetObject es perezoso: Stat fuerza la petición y detecta objetos inexistentes.
	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, nil, fmt.Errorf("minio: stat %s: %w", key, err)
	}
	return obj, &ports.ObjectInfo{Size: st.Size, ContentType: st.ContentType}, nil
}

// Remove borra el objeto; borrar uno inexistente no es error en S3.
func (s *MinioStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: remove %s: %w", key, err)
	}
	return nil
}
