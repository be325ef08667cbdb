package domain

import (
	"net/url"
	"strings"
)

// Image объект изображения товара в бакете витрины.
type Image struct {
	ID          string // uuid, он же имя файла в ключе
	Bucket      string
	ObjectKey   string // <товар>/<uuid>.<ext>
	ContentType string
	Data        []byte
}

func NewImage(id, bucket, objectKey, contentType string, data []byte) *Image {
	return &Image{
		ID:          id,
		Bucket:      bucket,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Data:        data,
	}
}

func (i *Image) Size() int64 {
	return int64(len(i.Data))
}

// PublicURL возвращает ссылку на объект для витрины. Сегменты ключа экранируются.
func PublicURL(baseURL, bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(baseURL, "/") + "/" + bucket + "/" + strings.Join(parts, "/")
}
