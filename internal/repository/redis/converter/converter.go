// Package converter преобразует сущности в JSON-модели Redis и обратно.
package converter

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
)

type ProductInfoConverter struct{}

func (ProductInfoConverter) ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel {
	return &ProductInfoRedisModel{
		ID:           entity.ID,
		Name:         entity.Name,
		CategoryName: entity.CategoryName,
		Brand:        entity.Brand,
		Price:        entity.Price,
		InStock:      entity.InStock,
	}
}

func (ProductInfoConverter) ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo {
	info := usecase.NewProductInfo(model.ID, model.Name, model.CategoryName, model.Brand, model.Price, model.InStock)
	return &info
}

func (c ProductInfoConverter) ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel {
	res := make([]ProductInfoRedisModel, 0, len(entities))
	for i := range entities {
		res = append(res, *c.ToRedisModel(&entities[i]))
	}
	return res
}

type ProductConverter struct{}

func (ProductConverter) ToRedisModel(p *domain.Product) ProductRedisModel {
	return ProductRedisModel{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Price:          p.Price,
		Rating:         p.Rating,
		ImageURL:       p.ImageURL,
		Features:       p.Features,
		Efficiency:     p.Efficiency,
		InStock:        p.InStock,
		CategoryID:     p.CategoryID,
		Category:       p.Category,
		Brand:          p.Brand,
		Position:       p.Position,
		Specifications: p.Specifications,
	}
}

func (ProductConverter) ToEntity(m *ProductRedisModel) domain.Product {
	return domain.Product{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		Price:          m.Price,
		Rating:         m.Rating,
		ImageURL:       m.ImageURL,
		Features:       m.Features,
		Efficiency:     m.Efficiency,
		InStock:        m.InStock,
		CategoryID:     m.CategoryID,
		Category:       m.Category,
		Brand:          m.Brand,
		Position:       m.Position,
		Specifications: m.Specifications,
	}
}

// WizardConverter восстанавливает дату черновика в часовом поясе компании.
type WizardConverter struct {
	Location *time.Location
}

func (WizardConverter) ToRedisModel(w *domain.Wizard) *WizardRedisModel {
	m := &WizardRedisModel{
		ID:            w.ID,
		UserID:        w.UserID,
		Step:          int(w.Step),
		Time:          w.Time,
		ServiceTypeID: w.ServiceTypeID,
		TechnicianID:  w.TechnicianID,
		Address:       w.Address,
		CreatedAt:     w.CreatedAt.Unix(),
	}
	if !w.Date.IsZero() {
		m.Date = w.Date.Format(time.DateOnly)
	}
	return m
}

func (c WizardConverter) ToEntity(m *WizardRedisModel) (*domain.Wizard, error) {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}

	step := domain.WizardStep(m.Step)
	if !step.Valid() {
		return nil, fmt.Errorf("invalid wizard step %d", m.Step)
	}

	w := &domain.Wizard{
		ID:            m.ID,
		UserID:        m.UserID,
		Step:          step,
		Time:          m.Time,
		ServiceTypeID: m.ServiceTypeID,
		TechnicianID:  m.TechnicianID,
		Address:       m.Address,
		CreatedAt:     time.Unix(m.CreatedAt, 0).In(loc),
	}

	if m.Date != "" {
		date, err := time.ParseInLocation(time.DateOnly, m.Date, loc)
		if err != nil {
			return nil, err
		}
		w.Date = date
	}

	return w, nil
}
