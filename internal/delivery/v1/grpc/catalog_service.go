package grpc

import (
	"context"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"google.golang.org/protobuf/types/known/structpb"
)

// CatalogService отдает каталог и расписание соседним сервисам (корзина, CRM).
// Сообщения передаются как google.protobuf.Struct.
type CatalogService struct {
	prUC    usecase.ProductUC
	schedUC usecase.SchedulingUC
	loc     *time.Location
	logger  logger.Logger
}

func NewCatalogService(prUC usecase.ProductUC, schedUC usecase.SchedulingUC, loc *time.Location, logger logger.Logger) *CatalogService {
	if loc == nil {
		loc = time.UTC
	}
	return &CatalogService{prUC: prUC, schedUC: schedUC, loc: loc, logger: logger}
}

// GetProductsInfo: {"ids": [1, 2]} -> {"products": [...], "productsNotFound": [...]}
func (g *CatalogService) GetProductsInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetProductsInfo"

	ids, err := int64List(req, "ids")
	if err != nil {
		return nil, GRPCErrorResponse(err)
	}

	res, err := g.prUC.GetProductsInfo(ctx, usecase.NewGetProductsReq(ids))
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	notFound := make([]any, 0, len(res.NotFoundProducts))
	for _, id := range res.NotFoundProducts {
		notFound = append(notFound, id)
	}

	return g.build(op, map[string]any{
		"products":         toAnyList(res.Products, productInfoFields),
		"productsNotFound": notFound,
	})
}

// QueryCatalog принимает те же параметры, что и GET /products.
func (g *CatalogService) QueryCatalog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.QueryCatalog"

	query, err := usecase.NewCatalogQuery(
		stringField(req, "search"),
		stringField(req, "brand"),
		stringField(req, "efficiency"),
		stringField(req, "price"),
		stringField(req, "sort"),
		intField(req, "page", 1),
	)
	if err != nil {
		return nil, GRPCErrorResponse(err)
	}

	page, err := g.prUC.QueryCatalog(ctx, query)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return g.build(op, map[string]any{
		"products":   toAnyList(page.Products, productFields),
		"page":       page.Page,
		"totalPages": page.TotalPages,
		"total":      page.Total,
		"from":       page.From,
		"to":         page.To,
	})
}

// GetTimeSlots: {"date": "2026-05-03", "technician": "tech-1"} -> {"slots": [...]}
func (g *CatalogService) GetTimeSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetTimeSlots"

	date, err := time.ParseInLocation(time.DateOnly, stringField(req, "date"), g.loc)
	if err != nil {
		return nil, GRPCErrorResponse(e.Field("date", "must be in YYYY-MM-DD format"))
	}

	slots, err := g.schedUC.GetTimeSlots(ctx, date, stringField(req, "technician"))
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return g.build(op, map[string]any{
		"slots": toAnyList(slots, slotFields),
	})
}

func (g *CatalogService) build(op string, fields map[string]any) (*structpb.Struct, error) {
	res, err := structpb.NewStruct(fields)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "failed to encode response")
		return nil, GRPCErrorResponse(err)
	}
	return res, nil
}

func productInfoFields(p *usecase.ProductInfo) map[string]any {
	return map[string]any{
		"id":       p.ID,
		"name":     p.Name,
		"category": p.CategoryName,
		"brand":    p.Brand,
		"price":    domain.FormatPrice(p.Price),
		"inStock":  p.InStock,
	}
}

func productFields(p *domain.Product) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"title":      p.Title,
		"brand":      p.Brand,
		"category":   p.Category,
		"efficiency": p.Efficiency,
		"price":      domain.FormatPrice(p.Price),
		"rating":     p.Rating,
		"inStock":    p.InStock,
		"image":      p.ImageURL,
	}
}

func slotFields(s *domain.Slot) map[string]any {
	return map[string]any{
		"time":      s.Display,
		"start":     s.Start.Format(time.RFC3339),
		"available": s.Available,
	}
}
