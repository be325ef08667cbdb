package domain

import (
	"strings"
	"time"
)

// Category описывает категорию кондиционеров (Split System, Window Unit, ...)
type Category struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt *time.Time
	IsActive  bool
}

func NewCategory(name string) *Category {
	name = strings.TrimSpace(name)
	return &Category{
		Name:     name,
		Slug:     Slugify(name),
		IsActive: true,
	}
}

// Slugify приводит название к виду "split-system".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
