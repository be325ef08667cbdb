package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
)

const (
	maxQuoteQuantity    = 99
	defaultRelatedLimit = 4
	maxRelatedLimit     = 12
)

// ProductUseCase реализует бизнес-логику каталога кондиционеров.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	txManager    TxManager
	imagesInfra  ImagesInfra
	vectorRepo   VectorRepository
	logger       logger.Logger
	cacheRepo    CacheRepository
	pageSize     int
	vectorSize   int
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	imagesInfra ImagesInfra,
	vectorRepo VectorRepository,
	logger logger.Logger,
	cacheRepo CacheRepository,
	pageSize int,
	vectorSize int,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		imagesInfra:  imagesInfra,
		vectorRepo:   vectorRepo,
		logger:       logger,
		cacheRepo:    cacheRepo,
		pageSize:     pageSize,
		vectorSize:   vectorSize,
	}
}

// QueryCatalog возвращает страницу каталога по фильтрам и сортировке.
func (p *ProductUseCase) QueryCatalog(ctx context.Context, query CatalogQuery) (*CatalogPage, error) {
	const op = "ProductUseCase.QueryCatalog"

	products, err := p.loadCatalog(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	page, err := ApplyCatalogQuery(products, query, p.pageSize)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return page, nil
}

// GetProduct возвращает карточку товара с вариантами монтажа.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*ProductDetails, error) {
	const op = "ProductUseCase.GetProduct"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &ProductDetails{
		Product:             *product,
		InstallationOptions: domain.InstallationOptions(),
	}, nil
}

// Quote считает стоимость: цена × количество + монтаж.
func (p *ProductUseCase) Quote(ctx context.Context, req *QuoteReq) (*QuoteRes, error) {
	const op = "ProductUseCase.Quote"

	fields := map[string]string{}
	if req.Quantity < 1 || req.Quantity > maxQuoteQuantity {
		fields["quantity"] = "must be between 1 and " + strconv.Itoa(maxQuoteQuantity)
	}

	var installation *domain.InstallationOption
	if req.InstallationID != "" {
		opt, ok := domain.FindInstallationOption(req.InstallationID)
		if !ok {
			fields["installation"] = "unknown installation option"
		} else {
			installation = &opt
		}
	}

	if len(fields) > 0 {
		return nil, e.Wrap(op, e.NewValidationError(fields))
	}

	product, err := p.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res := &QuoteRes{
		ProductID:    product.ID,
		UnitPrice:    product.Price,
		Quantity:     req.Quantity,
		Subtotal:     product.Price * int64(req.Quantity),
		Installation: installation,
		InStock:      product.InStock,
	}
	if installation != nil {
		res.InstallationPrice = installation.Price
	}
	res.Total = res.Subtotal + res.InstallationPrice

	return res, nil
}

// RelatedProducts возвращает похожие товары по вектору признаков, без самого товара.
func (p *ProductUseCase) RelatedProducts(ctx context.Context, id int64, limit int) ([]domain.Product, error) {
	const op = "ProductUseCase.RelatedProducts"

	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	limit = min(limit, maxRelatedLimit)

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ids, err := p.vectorRepo.Similar(ctx, id, domain.FeatureVector(product, p.vectorSize), limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	catalog, err := p.loadCatalog(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	byID := make(map[int64]domain.Product, len(catalog))
	for _, pr := range catalog {
		byID[pr.ID] = pr
	}

	related := make([]domain.Product, 0, len(ids))
	for _, relatedID := range ids {
		if relatedID == id {
			continue
		}
		if pr, ok := byID[relatedID]; ok {
			related = append(related, pr)
		}
	}

	return related, nil
}

// RegisterNewProduct обрабатывает добавление товара с изображениями, категорией, вектором и событием.
// Возвращает nil-событие, если товар не изменился.
func (p *ProductUseCase) RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*OutboxEvent, error) {
	const op = "ProductUseCase.RegisterNewProduct"

	// Валидация данных
	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Сохранение изображений в MinIO
	imagesRes, err := p.uploadImages(ctx, req.Title, req.Images)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		product *domain.Product
		event   *OutboxEvent
	)
	err = p.txManager.WithinTx(ctx, func(ctx context.Context) error {
		// идемпотентное создание категории
		category, err := p.createCategory(ctx, req.CategoryName)
		if err != nil {
			return err
		}

		// идемпотентное создание продукта
		res, err := p.upsertProduct(ctx, req, category, imagesRes)
		if err != nil {
			return err
		}
		product = res.Product
		if res.NoChanges {
			return nil
		}

		event, err = NewOutboxEvent(ProductUpserted, AggregateProduct, strconv.FormatInt(product.ID, 10), map[string]any{
			"product_id": product.ID,
			"title":      product.Title,
			"brand":      product.Brand,
			"category":   product.Category,
			"price":      domain.FormatPrice(product.Price),
			"in_stock":   product.InStock,
		})
		if err != nil {
			return err
		}

		event, err = p.outboxRepo.Create(ctx, event)
		return err
	})
	if err != nil {
		// Если произошла ошибка, загруженные изображения больше не нужны
		p.logger.Warnf(
			"Cleaning up orphaned images after transaction failure. product_title: %s, error: %v",
			req.Title,
			e.Wrap(op, err),
		)
		p.imagesInfra.CleanupImages(imagesRes.ImagesKeys)

		return nil, e.Wrap(op, err)
	}

	// Сохранение вектора признаков в Qdrant
	if err := p.vectorRepo.Upsert(ctx, []domain.ProductVector{*domain.NewProductVector(product, p.vectorSize)}); err != nil {
		p.logger.Warnf("Failed to upsert product vector: %v", e.Wrap(op, err))
	}

	// Удаление из кэша старых данных товара
	if err := p.cacheRepo.DeleteProducts(ctx, []int64{product.ID}); err != nil {
		p.logger.Warnf("Failed to delete products: %v", e.Wrap(op, err))
	}
	if err := p.cacheRepo.DeleteCatalog(ctx); err != nil {
		p.logger.Warnf("Failed to delete catalog: %v", e.Wrap(op, err))
	}

	return event, nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам.
func (p *ProductUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "ProductUseCase.GetProductsInfo"

	// Валидация
	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	// Поиск продуктов в кэше
	cacheProductsMap, err := p.cacheRepo.GetProducts(ctx, req.IDs)
	var nonCacheable []int64
	if err != nil {
		nonCacheable = append(nonCacheable, req.IDs...)
	} else {
		for _, productId := range req.IDs {
			if _, ok := cacheProductsMap[productId]; !ok {
				nonCacheable = append(nonCacheable, productId)
			}
		}
	}

	// Получение продуктов из БД
	var productsInfoFromDB []ProductInfo
	if len(nonCacheable) > 0 {
		productsInfoFromDB, err = p.productRepo.GetProductsInfo(ctx, nonCacheable)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Фоновое добавление продуктов в кэш
		if len(productsInfoFromDB) > 0 {
			go func() {
				bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				defer cancel()

				if err := p.cacheRepo.SetProducts(bgCtx, productsInfoFromDB); err != nil {
					p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
				}
			}()
		}
	}

	dbProductsMap := make(map[int64]ProductInfo, len(productsInfoFromDB))
	for _, productInfo := range productsInfoFromDB {
		dbProductsMap[productInfo.ID] = productInfo
	}

	// Формирование результата в порядке запроса
	result := make([]ProductInfo, 0, len(req.IDs))
	notFoundProducts := make([]int64, 0)
	for _, id := range req.IDs {
		if pr, ok := cacheProductsMap[id]; ok {
			result = append(result, pr)
		} else if pr, ok := dbProductsMap[id]; ok {
			result = append(result, pr)
		} else {
			notFoundProducts = append(notFoundProducts, id)
		}
	}

	return NewGetProductsRes(result, notFoundProducts), nil
}

// loadCatalog читает весь каталог из кэша, при промахе из БД с фоновым кэшированием.
func (p *ProductUseCase) loadCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.loadCatalog"

	products, ok, err := p.cacheRepo.GetCatalog(ctx)
	if err != nil {
		p.logger.Warnf("Catalog cache read failed: %v", e.Wrap(op, err))
	}
	if ok {
		return products, nil
	}

	products, err = p.productRepo.ListActive(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetCatalog(bgCtx, products); err != nil {
			p.logger.Warnf("Failed to cache catalog in background: %v", e.Wrap(op, err))
		}
	}()

	return products, nil
}

// upsertProduct идемпотентно создаёт или обновляет товар.
func (p *ProductUseCase) upsertProduct(ctx context.Context, req *AddNewProductReq, category *domain.Category, images *UploadImagesRes) (*UpsertProductRes, error) {
	product := domain.NewProduct(strings.TrimSpace(req.Title), req.Description, req.Price, category.ID, req.Brand)
	product.Category = category.Name
	product.Efficiency = req.Efficiency
	product.Rating = req.Rating
	product.InStock = req.InStock
	product.Features = req.Features
	product.Specifications = req.Specifications
	product.ImageKeys = images.ImagesKeys
	if len(images.URLs) > 0 {
		product.ImageURL = images.URLs[0]
	}

	return p.productRepo.Upsert(ctx, product)
}

// createCategory идемпотентно создаёт категорию.
func (p *ProductUseCase) createCategory(ctx context.Context, categoryName string) (*domain.Category, error) {
	return p.categoryRepo.Create(ctx, domain.NewCategory(categoryName))
}

// uploadImages сохраняет изображения товара в MinIO.
func (p *ProductUseCase) uploadImages(ctx context.Context, name string, images []ProductImage) (*UploadImagesRes, error) {
	return p.imagesInfra.UploadImages(ctx, NewUploadImagesReq(domain.Slugify(name), images))
}

// validateProduct проверяет корректность входных данных запроса на добавление товара.
func (p *ProductUseCase) validateProduct(req *AddNewProductReq) error {
	if strings.TrimSpace(req.Title) == "" {
		return e.ErrProductNameRequired
	}

	if req.Price <= 0 {
		return e.ErrPriceMustBePositive
	}

	if strings.TrimSpace(req.CategoryName) == "" || strings.TrimSpace(req.Brand) == "" {
		return e.ErrMissingFields
	}

	if req.Rating < 0 || req.Rating > 5 {
		return e.Field("rating", "must be between 0 and 5")
	}

	if len(req.Images) == 0 {
		return e.ErrNoImages
	}

	return nil
}
