package infrastructure

import (
	"mime"
	"net/http"
	"strings"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// NormalizeImageMIME приводит заявленный тип к виду "type/subtype" без параметров.
func NormalizeImageMIME(declared string) (string, error) {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(declared))
	if err != nil {
		return "", e.ErrUnsupportedMediaType
	}
	if mt == "image/jpg" {
		mt = "image/jpeg"
	}
	if _, ok := imageExtensions[mt]; !ok {
		return "", e.ErrUnsupportedMediaType
	}
	return mt, nil
}

// ImageExtension проверяет, что содержимое совпадает с заявленным типом, и
// возвращает расширение объекта.
func ImageExtension(declared string, data []byte) (string, error) {
	mt, err := NormalizeImageMIME(declared)
	if err != nil {
		return "", err
	}

	if sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data)); sniffed != mt {
		return "", e.ErrUnsupportedMediaType
	}

	return imageExtensions[mt], nil
}
