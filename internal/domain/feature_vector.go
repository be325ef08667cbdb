package domain

import (
	"hash/fnv"
	"math"
	"strings"
)

// Payload описывает дополнительную информацию вектора
type Payload map[string]any

// ProductVector вектор признаков товара для поиска похожих
type ProductVector struct {
	ProductID int64
	Vector    []float32
	Payload   Payload
}

func NewProductVector(p *Product, dim int) *ProductVector {
	return &ProductVector{
		ProductID: p.ID,
		Vector:    FeatureVector(p, dim),
		Payload: Payload{
			"product_id": p.ID,
			"category":   p.Category,
			"brand":      p.Brand,
			"efficiency": p.Efficiency,
			"price":      p.Price,
		},
	}
}

// FeatureVector строит нормированный вектор признаков товара методом
// хеширования признаков: бренд, категория, класс эффективности, слова
// характеристик и ценовой диапазон.
func FeatureVector(p *Product, dim int) []float32 {
	vec := make([]float32, dim)
	if dim == 0 {
		return vec
	}

	add := func(token string, weight float32) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		sum := h.Sum32()
		idx := int(sum % uint32(dim))
		if sum&(1<<31) != 0 {
			weight = -weight
		}
		vec[idx] += weight
	}

	add("brand:"+strings.ToLower(p.Brand), 2)
	add("category:"+strings.ToLower(p.Category), 3)
	add("efficiency:"+strings.ToLower(p.Efficiency), 1.5)
	add("band:"+string(PriceBandOf(p.Price)), 2)

	for _, f := range p.Features {
		for _, w := range strings.Fields(strings.ToLower(f)) {
			if len(w) > 3 {
				add("feature:"+w, 0.5)
			}
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}

	n := float32(math.Sqrt(norm))
	for i := range vec {
		vec[i] /= n
	}

	return vec
}
