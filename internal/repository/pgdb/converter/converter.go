// Package converter преобразует записи PostgreSQL в доменные сущности и обратно.
package converter

import (
	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func (ProductConverter) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:             entity.ID,
		Name:           entity.Title,
		Description:    entity.Description,
		Price:          entity.Price,
		Rating:         entity.Rating,
		ImageURL:       entity.ImageURL,
		Features:       nonNil(entity.Features),
		Efficiency:     entity.Efficiency,
		InStock:        entity.InStock,
		CategoryID:     entity.CategoryID,
		CategoryName:   entity.Category,
		Brand:          entity.Brand,
		Position:       entity.Position,
		Specifications: entity.Specifications,
		ImageKeys:      nonNil(entity.ImageKeys),
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
		IsArchived:     entity.IsArchived,
	}
}

func (ProductConverter) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:             model.ID,
		Title:          model.Name,
		Description:    model.Description,
		Price:          model.Price,
		Rating:         model.Rating,
		ImageURL:       model.ImageURL,
		Features:       model.Features,
		Efficiency:     model.Efficiency,
		InStock:        model.InStock,
		CategoryID:     model.CategoryID,
		Category:       model.CategoryName,
		Brand:          model.Brand,
		Position:       model.Position,
		Specifications: model.Specifications,
		ImageKeys:      model.ImageKeys,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
		IsArchived:     model.IsArchived,
	}
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter struct{}

func (CategoryConverter) ToModel(entity *domain.Category) *CategoryModel {
	return &CategoryModel{
		ID:         entity.ID,
		Name:       entity.Name,
		Slug:       entity.Slug,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
		IsArchived: !entity.IsActive,
	}
}

func (CategoryConverter) ToEntity(model *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:        model.ID,
		Name:      model.Name,
		Slug:      model.Slug,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		IsActive:  !model.IsArchived,
	}
}

type ServiceTypeConverter struct{}

func (ServiceTypeConverter) ToEntity(model *ServiceTypeModel) *domain.ServiceType {
	return &domain.ServiceType{
		ID:              model.ID,
		Name:            model.Name,
		DurationMinutes: model.DurationMinutes,
		Price:           model.Price,
		Description:     model.Description,
	}
}

type TechnicianConverter struct{}

func (TechnicianConverter) ToEntity(model *TechnicianModel) *domain.Technician {
	return &domain.Technician{
		ID:             model.ID,
		Name:           model.Name,
		Specialization: model.Specialization,
		Rating:         model.Rating,
		Available:      model.Available,
		ImageURL:       model.ImageURL,
	}
}

// AppointmentConverter преобразует визиты; пустой ключ идемпотентности хранится как NULL.
type AppointmentConverter struct{}

func (AppointmentConverter) ToModel(entity *domain.Appointment) *AppointmentModel {
	var key *string
	if entity.IdempotencyKey != "" {
		key = &entity.IdempotencyKey
	}

	return &AppointmentModel{
		ID:               entity.ID,
		Reference:        entity.Reference,
		CustomerID:       entity.CustomerID,
		CustomerName:     entity.CustomerName,
		CustomerEmail:    entity.CustomerEmail,
		ServiceTypeID:    entity.ServiceTypeID,
		ServiceName:      entity.ServiceName,
		TechnicianID:     entity.TechnicianID,
		TechnicianName:   entity.TechnicianName,
		Address:          entity.Address,
		StartsAt:         entity.StartsAt,
		DurationMinutes:  entity.DurationMinutes,
		Price:            entity.Price,
		PaymentReference: entity.PaymentReference,
		Status:           string(entity.Status),
		Notes:            entity.Notes,
		IdempotencyKey:   key,
		CreatedAt:        entity.CreatedAt,
		UpdatedAt:        entity.UpdatedAt,
	}
}

func (AppointmentConverter) ToEntity(model *AppointmentModel) *domain.Appointment {
	a := &domain.Appointment{
		ID:               model.ID,
		Reference:        model.Reference,
		CustomerID:       model.CustomerID,
		CustomerName:     model.CustomerName,
		CustomerEmail:    model.CustomerEmail,
		ServiceTypeID:    model.ServiceTypeID,
		ServiceName:      model.ServiceName,
		TechnicianID:     model.TechnicianID,
		TechnicianName:   model.TechnicianName,
		Address:          model.Address,
		StartsAt:         model.StartsAt,
		DurationMinutes:  model.DurationMinutes,
		Price:            model.Price,
		PaymentReference: model.PaymentReference,
		Status:           domain.AppointmentStatus(model.Status),
		Notes:            model.Notes,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
	if model.IdempotencyKey != nil {
		a.IdempotencyKey = *model.IdempotencyKey
	}
	return a
}

func (c AppointmentConverter) ToArrEntity(models []AppointmentModel) []domain.Appointment {
	res := make([]domain.Appointment, 0, len(models))
	for i := range models {
		res = append(res, *c.ToEntity(&models[i]))
	}
	return res
}

type UserConverter struct{}

func (UserConverter) ToEntity(model *UserModel) *domain.User {
	return &domain.User{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         domain.Role(model.Role),
		CreatedAt:    model.CreatedAt,
	}
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:            entity.ID,
		EventID:       entity.EventID,
		EventType:     string(entity.EventType),
		AggregateType: string(entity.AggregateType),
		AggregateID:   entity.AggregateID,
		Payload:       entity.Payload,
		Status:        string(entity.Status),
		CreatedAt:     entity.CreatedAt,
		ProcessedAt:   entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:            model.ID,
		EventID:       model.EventID,
		EventType:     usecase.OutboxEventType(model.EventType),
		AggregateType: usecase.AggregateType(model.AggregateType),
		AggregateID:   model.AggregateID,
		Payload:       model.Payload,
		Status:        usecase.OutboxStatus(model.Status),
		CreatedAt:     model.CreatedAt,
		ProcessedAt:   model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	res := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		res = append(res, c.ToEntity(m))
	}
	return res
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
