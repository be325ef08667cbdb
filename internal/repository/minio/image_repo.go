package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/aircon-backend/internal/cfg"
	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ключи содержат uuid, поэтому объекты никогда не перезаписываются
const immutableCache = "public, max-age=31536000, immutable"

// ImageRepo хранит изображения товаров в MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{mc: mc, cfg: cfg}
}

func (r *ImageRepo) bucket(image *domain.Image) string {
	if image.Bucket != "" {
		return image.Bucket
	}
	return r.cfg.BucketName
}

// Upload кладет изображение в бакет и возвращает ключ объекта.
func (r *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	info, err := r.mc.PutObject(ctx, r.bucket(image), image.ObjectKey, bytes.NewReader(image.Data), image.Size(),
		minio.PutObjectOptions{
			ContentType:  image.ContentType,
			CacheControl: immutableCache,
			UserMetadata: map[string]string{"image-id": image.ID},
		})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

func (r *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := r.mc.RemoveObject(ctx, r.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}
