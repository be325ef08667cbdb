package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
)

type productFixture struct {
	uc      *ProductUseCase
	repo    *fakeProductRepo
	cache   *fakeCacheRepo
	vectors *fakeVectorRepo
	images  *fakeImagesInfra
	outbox  *fakeOutboxRepo
}

func newProductFixture() *productFixture {
	f := &productFixture{
		repo:    &fakeProductRepo{products: seedProducts()},
		cache:   &fakeCacheRepo{products: map[int64]ProductInfo{}},
		vectors: &fakeVectorRepo{},
		images:  &fakeImagesInfra{},
		outbox:  &fakeOutboxRepo{},
	}
	f.uc = NewProductUC(f.repo, fakeCategoryRepo{}, f.outbox, fakeTxManager{}, f.images, f.vectors, logger.Nop{}, f.cache, DefaultPageSize, 64)
	return f
}

func TestProductUseCase_QueryCatalogUnder1000(t *testing.T) {
	f := newProductFixture()

	q := mustQuery(t, "", "", "", "under1000", "", 1)
	page, err := f.uc.QueryCatalog(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Total != 5 {
		t.Fatalf("total = %d", page.Total)
	}
	for _, p := range page.Products {
		if p.Price >= 100000 {
			t.Fatalf("%s is not under 1000.00", p.Title)
		}
	}
}

func TestProductUseCase_GetProduct(t *testing.T) {
	f := newProductFixture()

	details, err := f.uc.GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Product.Title != "Premium AC Unit XC-5000" || len(details.InstallationOptions) != 3 {
		t.Fatalf("unexpected details: %+v", details)
	}

	if _, err := f.uc.GetProduct(context.Background(), 404); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductUseCase_Quote(t *testing.T) {
	f := newProductFixture()

	tests := []struct {
		name    string
		req     *QuoteReq
		total   int64
		wantErr error
	}{
		{"no installation", NewQuoteReq(2, 2, ""), 2 * 49999, nil},
		{"standard installation", NewQuoteReq(1, 1, "standard"), 129999 + 14999, nil},
		{"zero quantity", NewQuoteReq(1, 0, ""), 0, e.ErrValidation},
		{"unknown installation", NewQuoteReq(1, 1, "deluxe"), 0, e.ErrValidation},
		{"unknown product", NewQuoteReq(99, 1, ""), 0, e.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.uc.Quote(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Total != tt.total {
				t.Fatalf("total = %d, want %d", res.Total, tt.total)
			}
		})
	}
}

func TestProductUseCase_RelatedProductsExcludesItself(t *testing.T) {
	f := newProductFixture()
	f.vectors.similar = []int64{1, 3, 6, 404}

	related, err := f.uc.RelatedProducts(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(related) != 2 || related[0].ID != 3 || related[1].ID != 6 {
		t.Fatalf("related = %v", titles(related))
	}
}

func TestProductUseCase_GetProductsInfo(t *testing.T) {
	f := newProductFixture()
	f.cache.products[2] = ProductInfo{ID: 2, Name: "cached"}

	res, err := f.uc.GetProductsInfo(context.Background(), NewGetProductsReq([]int64{2, 1, 500}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Products) != 2 || res.Products[0].Name != "cached" || res.Products[1].ID != 1 {
		t.Fatalf("products = %+v", res.Products)
	}
	if len(res.NotFoundProducts) != 1 || res.NotFoundProducts[0] != 500 {
		t.Fatalf("not found = %v", res.NotFoundProducts)
	}

	if _, err := f.uc.GetProductsInfo(context.Background(), NewGetProductsReq(nil)); !errors.Is(err, e.ErrNoProducts) {
		t.Fatalf("expected ErrNoProducts, got %v", err)
	}
}

func TestProductUseCase_RegisterNewProduct(t *testing.T) {
	f := newProductFixture()

	req := NewAddNewProductReq("Arctic Breeze 9000", "Split System", "CoolBreeze", 159999, []ProductImage{
		*NewProductImage([]byte("img"), "image/jpeg", 3, "front.jpg"),
	})
	req.Efficiency = "A++"

	event, err := f.uc.RegisterNewProduct(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event == nil || event.EventType != ProductUpserted || event.AggregateType != AggregateProduct {
		t.Fatalf("unexpected event: %+v", event)
	}
	if len(f.vectors.upserted) != 1 || len(f.vectors.upserted[0].Vector) != 64 {
		t.Fatalf("vectors = %+v", f.vectors.upserted)
	}
	if f.cache.deleted != 1 {
		t.Fatal("product cache was not invalidated")
	}

	stored, _ := f.repo.GetByID(context.Background(), 13)
	if stored == nil || stored.ImageURL == "" || stored.Category != "Split System" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestProductUseCase_RegisterNewProductValidation(t *testing.T) {
	f := newProductFixture()

	tests := []struct {
		name string
		req  *AddNewProductReq
		want error
	}{
		{"no title", NewAddNewProductReq(" ", "Split", "X", 100, []ProductImage{{}}), e.ErrProductNameRequired},
		{"zero price", NewAddNewProductReq("A", "Split", "X", 0, []ProductImage{{}}), e.ErrPriceMustBePositive},
		{"no brand", NewAddNewProductReq("A", "Split", "", 100, []ProductImage{{}}), e.ErrMissingFields},
		{"no images", NewAddNewProductReq("A", "Split", "X", 100, nil), e.ErrNoImages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.uc.RegisterNewProduct(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
