package usecase

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
)

func mustQuery(t *testing.T, search, brand, efficiency, price, sort string, page int) CatalogQuery {
	t.Helper()
	q, err := NewCatalogQuery(search, brand, efficiency, price, sort, page)
	if err != nil {
		t.Fatalf("NewCatalogQuery: %v", err)
	}
	return q
}

func titles(products []domain.Product) []string {
	res := make([]string, 0, len(products))
	for _, p := range products {
		res = append(res, p.Title)
	}
	return res
}

func TestApplyCatalogQuery_PremiumSearch(t *testing.T) {
	page, err := ApplyCatalogQuery(seedProducts(), mustQuery(t, "Premium", "", "", "", "", 1), DefaultPageSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := titles(page.Products)
	want := []string{"Premium AC Unit XC-5000", "Premium Ductless Multi-Zone System"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestApplyCatalogQuery_SearchIsCaseInsensitiveAndMatchesDescription(t *testing.T) {
	page, err := ApplyCatalogQuery(seedProducts(), mustQuery(t, "SOLAR POWER", "", "", "", "", 1), DefaultPageSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || page.Products[0].Title != "Solar-Ready AC System" {
		t.Fatalf("got %v", titles(page.Products))
	}
}

func TestApplyCatalogQuery_PriceBands(t *testing.T) {
	tests := []struct {
		band  string
		check func(cents int64) bool
		total int
	}{
		{"under1000", func(c int64) bool { return c < 100000 }, 5},
		{"1000to2000", func(c int64) bool { return c >= 100000 && c <= 200000 }, 3},
		{"over2000", func(c int64) bool { return c > 200000 }, 4},
		{"all", func(int64) bool { return true }, 12},
	}

	for _, tt := range tests {
		t.Run(tt.band, func(t *testing.T) {
			page, err := ApplyCatalogQuery(seedProducts(), mustQuery(t, "", "", "", tt.band, "", 1), 100)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.Total != tt.total {
				t.Fatalf("total = %d, want %d", page.Total, tt.total)
			}
			for _, p := range page.Products {
				if !tt.check(p.Price) {
					t.Fatalf("%s priced %d is outside %s", p.Title, p.Price, tt.band)
				}
			}
		})
	}
}

func TestApplyCatalogQuery_SortOrders(t *testing.T) {
	low, _ := ApplyCatalogQuery(seedProducts(), mustQuery(t, "", "", "", "", "priceLow", 1), 100)
	for i := 1; i < len(low.Products); i++ {
		if low.Products[i-1].Price > low.Products[i].Price {
			t.Fatalf("priceLow not non-decreasing at %d", i)
		}
	}

	high, _ := ApplyCatalogQuery(seedProducts(), mustQuery(t, "", "", "", "", "priceHigh", 1), 100)
	for i := 1; i < len(high.Products); i++ {
		if high.Products[i-1].Price < high.Products[i].Price {
			t.Fatalf("priceHigh not non-increasing at %d", i)
		}
	}

	rating, _ := ApplyCatalogQuery(seedProducts(), mustQuery(t, "", "", "", "", "rating", 1), 100)
	for i := 1; i < len(rating.Products); i++ {
		if rating.Products[i-1].Rating < rating.Products[i].Rating {
			t.Fatalf("rating not non-increasing at %d", i)
		}
	}

	// равные цены сохраняют исходный порядок
	if low.Products[0].Title != "Smart Home AC Integration Kit" || low.Products[1].Title != "Budget Friendly Window AC" {
		t.Fatalf("unstable sort: %v", titles(low.Products[:2]))
	}

	featured, _ := ApplyCatalogQuery(seedProducts(), mustQuery(t, "", "", "", "", "", 1), 100)
	for i, p := range featured.Products {
		if p.ID != int64(i+1) {
			t.Fatalf("featured changed source order at %d", i)
		}
	}
}

func TestApplyCatalogQuery_Pagination(t *testing.T) {
	products := seedProducts()

	first, _ := ApplyCatalogQuery(products, mustQuery(t, "", "", "", "", "", 1), DefaultPageSize)
	second, _ := ApplyCatalogQuery(products, mustQuery(t, "", "", "", "", "", 2), DefaultPageSize)

	if first.TotalPages != 2 || first.Total != 12 {
		t.Fatalf("pages = %d total = %d", first.TotalPages, first.Total)
	}
	if len(first.Products) != 9 || len(second.Products) != 3 {
		t.Fatalf("page sizes %d and %d", len(first.Products), len(second.Products))
	}
	if first.From != 1 || first.To != 9 || second.From != 10 || second.To != 12 {
		t.Fatalf("bounds %d-%d and %d-%d", first.From, first.To, second.From, second.To)
	}

	clamped, _ := ApplyCatalogQuery(products, mustQuery(t, "", "", "", "", "", 7), DefaultPageSize)
	if clamped.Page != 2 {
		t.Fatalf("page 7 clamped to %d", clamped.Page)
	}
}

func TestApplyCatalogQuery_PagesCoverFilteredSet(t *testing.T) {
	tests := []struct {
		name     string
		brand    string
		price    string
		sort     string
		pageSize int
	}{
		{"all featured", "", "", "", DefaultPageSize},
		{"all by price low", "", "", "priceLow", 5},
		{"all by rating", "", "", "rating", 2},
		{"brand", "CoolBreeze", "", "", 1},
		{"brand by price high", "AirMax", "", "priceHigh", 1},
		{"under1000 by price low", "", "under1000", "priceLow", 2},
		{"1000to2000 by rating", "", "1000to2000", "rating", 2},
		{"over2000 by price high", "", "over2000", "priceHigh", 3},
		{"brand and band", "TechCool", "over2000", "rating", 1},
		{"no matches", "SmartAir", "over2000", "priceLow", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := ApplyCatalogQuery(seedProducts(), mustQuery(t, "", tt.brand, "", tt.price, tt.sort, 1), tt.pageSize)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			seen := map[int64]bool{}
			covered := 0
			for page := 1; page <= first.TotalPages; page++ {
				res, err := ApplyCatalogQuery(seedProducts(), mustQuery(t, "", tt.brand, "", tt.price, tt.sort, page), tt.pageSize)
				if err != nil {
					t.Fatalf("page %d: %v", page, err)
				}
				if res.Page != page || res.Total != first.Total {
					t.Fatalf("page %d: got page %d total %d", page, res.Page, res.Total)
				}
				if len(res.Products) == 0 || len(res.Products) > tt.pageSize {
					t.Fatalf("page %d has %d products, page size %d", page, len(res.Products), tt.pageSize)
				}
				if res.From != covered+1 || res.To != covered+len(res.Products) {
					t.Fatalf("page %d bounds %d-%d after %d", page, res.From, res.To, covered)
				}
				for _, p := range res.Products {
					if seen[p.ID] {
						t.Fatalf("product %d repeated on page %d", p.ID, page)
					}
					seen[p.ID] = true
					if tt.brand != "" && p.Brand != tt.brand {
						t.Fatalf("brand %q leaked into %q", p.Brand, tt.brand)
					}
					if !first.Query.Price.Contains(p.Price) {
						t.Fatalf("price %d outside band %q", p.Price, tt.price)
					}
				}
				covered += len(res.Products)
			}

			if covered != first.Total {
				t.Fatalf("pages cover %d of %d products", covered, first.Total)
			}
			if first.Total == 0 && (!first.Empty || first.TotalPages != 0) {
				t.Fatalf("empty result reported as %+v", first)
			}
		})
	}
}

func TestApplyCatalogQuery_EmptyState(t *testing.T) {
	page, err := ApplyCatalogQuery(seedProducts(), mustQuery(t, "no such unit", "", "", "", "", 3), DefaultPageSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.Empty || page.Page != 1 || page.TotalPages != 0 || page.From != 0 || len(page.Products) != 0 {
		t.Fatalf("unexpected empty page: %+v", page)
	}
}

func TestApplyCatalogQuery_Facets(t *testing.T) {
	page, _ := ApplyCatalogQuery(seedProducts(), mustQuery(t, "", "", "", "", "", 1), DefaultPageSize)

	wantBrands := []string{"all", "CoolBreeze", "AirMax", "TechCool", "SmartAir", "CoolSaver", "GreenCool"}
	if len(page.Facets.Brands) != len(wantBrands) {
		t.Fatalf("brands = %v", page.Facets.Brands)
	}
	for i := range wantBrands {
		if page.Facets.Brands[i] != wantBrands[i] {
			t.Fatalf("brands = %v", page.Facets.Brands)
		}
	}
	if page.Facets.Efficiencies[0] != "all" {
		t.Fatalf("efficiencies = %v", page.Facets.Efficiencies)
	}
}

func TestApplyCatalogQuery_UnknownFilters(t *testing.T) {
	_, err := ApplyCatalogQuery(seedProducts(), mustQuery(t, "", "Frosty", "B", "", "", 1), DefaultPageSize)

	v, ok := e.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if v.Fields["brand"] == "" || v.Fields["efficiency"] == "" {
		t.Fatalf("fields = %v", v.Fields)
	}

	if _, err := NewCatalogQuery("", "", "", "cheap", "newest", 1); !errors.Is(err, e.ErrValidation) {
		t.Fatalf("expected validation error for price and sort, got %v", err)
	}
}

func TestCatalogState_FiltersResetPage(t *testing.T) {
	s := NewCatalogState()

	setters := map[string]func(){
		"search":     func() { s.SetSearch("ac") },
		"brand":      func() { s.SetBrand("AirMax") },
		"efficiency": func() { s.SetEfficiency("A+") },
		"price":      func() { s.SetPrice(domain.PriceUnder1000) },
		"sort":       func() { s.SetSort(domain.SortRating) },
	}

	for name, set := range setters {
		s.SetPage(2)
		set()
		if s.Query().Page != 1 {
			t.Fatalf("%s did not reset page", name)
		}
	}

	s.SetPage(2)
	if s.Query().Page != 2 || s.Query().Sort != domain.SortRating {
		t.Fatalf("SetPage changed other state: %+v", s.Query())
	}
}
