package domain

import "time"

// Product описывает кондиционер из каталога витрины
type Product struct {
	ID             int64
	Title          string
	Description    string
	Price          int64 // Цена хранится в центах
	Rating         float64
	ImageURL       string
	Features       []string
	Efficiency     string // Класс энергоэффективности, например "A+++"
	InStock        bool
	CategoryID     int64
	Category       string
	Brand          string
	Position       int // Порядок в выдаче "featured"
	Specifications map[string]string
	ImageKeys      []string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	IsArchived     bool
}

func NewProduct(title string, description string, price int64, categoryID int64, brand string) *Product {
	return &Product{
		Title:       title,
		Description: description,
		Price:       price,
		CategoryID:  categoryID,
		Brand:       brand,
		InStock:     true,
	}
}
