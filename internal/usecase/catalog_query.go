package usecase

import (
	"slices"
	"sort"
	"strings"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
)

// DefaultPageSize размер страницы каталога.
const DefaultPageSize = 9

// CatalogQuery параметры фильтрации, сортировки и страницы каталога.
type CatalogQuery struct {
	Search     string
	Brand      string
	Efficiency string
	Price      domain.PriceBand
	Sort       domain.SortKey
	Page       int
}

// NewCatalogQuery разбирает параметры запроса; пустые значения означают "all"/"featured"/1.
func NewCatalogQuery(search, brand, efficiency, price, sortKey string, page int) (CatalogQuery, error) {
	fields := map[string]string{}

	band, ok := domain.ParsePriceBand(price)
	if !ok {
		fields["price"] = "must be one of: all, under1000, 1000to2000, over2000"
	}

	key, ok := domain.ParseSortKey(sortKey)
	if !ok {
		fields["sort"] = "must be one of: featured, priceLow, priceHigh, rating"
	}

	if len(fields) > 0 {
		return CatalogQuery{}, e.NewValidationError(fields)
	}

	if brand == "" {
		brand = domain.FilterAll
	}
	if efficiency == "" {
		efficiency = domain.FilterAll
	}
	if page < 1 {
		page = 1
	}

	return CatalogQuery{
		Search:     strings.TrimSpace(search),
		Brand:      brand,
		Efficiency: efficiency,
		Price:      band,
		Sort:       key,
		Page:       page,
	}, nil
}

// CatalogFacets значения фильтров, доступные в каталоге; "all" идет первым.
type CatalogFacets struct {
	Brands       []string
	Efficiencies []string
}

// CatalogPage видимая страница каталога.
type CatalogPage struct {
	Products   []domain.Product
	Page       int
	PageSize   int
	TotalPages int
	Total      int
	From       int // номер первого товара на странице, 1-based; 0 для пустой выдачи
	To         int
	Empty      bool
	Facets     CatalogFacets
	Query      CatalogQuery
}

// ApplyCatalogQuery фильтрует, сортирует и делит на страницы список товаров.
// Исходный срез не изменяется. Номер страницы приводится к [1, TotalPages].
func ApplyCatalogQuery(products []domain.Product, q CatalogQuery, pageSize int) (*CatalogPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	facets := buildFacets(products)
	if err := validateFacetFilters(q, facets); err != nil {
		return nil, err
	}

	filtered := make([]domain.Product, 0, len(products))
	search := strings.ToLower(q.Search)
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if q.Brand != domain.FilterAll && p.Brand != q.Brand {
			continue
		}
		if q.Efficiency != domain.FilterAll && p.Efficiency != q.Efficiency {
			continue
		}
		if !q.Price.Contains(p.Price) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, q.Sort)

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	page := q.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	q.Page = page

	res := &CatalogPage{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      total,
		Empty:      total == 0,
		Facets:     facets,
		Query:      q,
		Products:   []domain.Product{},
	}
	if res.Empty {
		return res, nil
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	res.Products = filtered[start:end]
	res.From = start + 1
	res.To = end

	return res, nil
}

func sortProducts(products []domain.Product, key domain.SortKey) {
	switch key {
	case domain.SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case domain.SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case domain.SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	}
}

func buildFacets(products []domain.Product) CatalogFacets {
	facets := CatalogFacets{
		Brands:       []string{domain.FilterAll},
		Efficiencies: []string{domain.FilterAll},
	}
	for _, p := range products {
		if p.Brand != "" && !slices.Contains(facets.Brands, p.Brand) {
			facets.Brands = append(facets.Brands, p.Brand)
		}
		if p.Efficiency != "" && !slices.Contains(facets.Efficiencies, p.Efficiency) {
			facets.Efficiencies = append(facets.Efficiencies, p.Efficiency)
		}
	}
	return facets
}

func validateFacetFilters(q CatalogQuery, facets CatalogFacets) error {
	fields := map[string]string{}
	if !slices.Contains(facets.Brands, q.Brand) {
		fields["brand"] = "unknown brand"
	}
	if !slices.Contains(facets.Efficiencies, q.Efficiency) {
		fields["efficiency"] = "unknown efficiency rating"
	}
	if len(fields) > 0 {
		return e.NewValidationError(fields)
	}
	return nil
}

// CatalogState состояние фильтров витрины. Любое изменение фильтра или
// сортировки сбрасывает страницу на первую, смена страницы ничего не сбрасывает.
type CatalogState struct {
	query CatalogQuery
}

func NewCatalogState() *CatalogState {
	return &CatalogState{query: CatalogQuery{
		Brand:      domain.FilterAll,
		Efficiency: domain.FilterAll,
		Price:      domain.PriceAll,
		Sort:       domain.SortFeatured,
		Page:       1,
	}}
}

func (s *CatalogState) Query() CatalogQuery { return s.query }

func (s *CatalogState) SetSearch(v string) {
	s.query.Search = strings.TrimSpace(v)
	s.query.Page = 1
}

func (s *CatalogState) SetBrand(v string) {
	s.query.Brand = v
	s.query.Page = 1
}

func (s *CatalogState) SetEfficiency(v string) {
	s.query.Efficiency = v
	s.query.Page = 1
}

func (s *CatalogState) SetPrice(v domain.PriceBand) {
	s.query.Price = v
	s.query.Page = 1
}

func (s *CatalogState) SetSort(v domain.SortKey) {
	s.query.Sort = v
	s.query.Page = 1
}

func (s *CatalogState) SetPage(page int) {
	s.query.Page = page
}
