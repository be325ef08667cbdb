package http

import (
	"net/http"

	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
)

const defaultRelatedLimit = 4

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// queryCatalog
//
//	@Summary		Каталог товаров
//	@Description	Поиск, фильтры, сортировка и постраничный вывод каталога
//	@Tags			products
//	@Produce		json
//	@Param			search		query		string	false	"Поиск по названию и описанию"
//	@Param			brand		query		string	false	"Бренд или all"
//	@Param			efficiency	query		string	false	"Класс энергоэффективности или all"
//	@Param			price		query		string	false	"all, under1000, 1000to2000, over2000"
//	@Param			sort		query		string	false	"featured, priceLow, priceHigh, rating"
//	@Param			page		query		int		false	"Номер страницы"
//	@Success		200			{object}	CatalogPageResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) queryCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt(r, "page", 1)
	if err != nil {
		WriteError(w, err)
		return
	}

	query, err := usecase.NewCatalogQuery(q.Get("search"), q.Get("brand"), q.Get("efficiency"), q.Get("price"), q.Get("sort"), page)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.QueryCatalog(r.Context(), query)
	if err != nil {
		p.logger.Warnf("query catalog: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCatalogPageResponse(res))
}

// getProduct
//
//	@Summary	Карточка товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	ProductDetailsResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	options := make([]InstallationOptionResponse, 0, len(res.InstallationOptions))
	for i := range res.InstallationOptions {
		options = append(options, toInstallationOptionResponse(&res.InstallationOptions[i]))
	}

	WriteSuccess(w, http.StatusOK, ProductDetailsResponse{
		ProductResponse:     toProductResponse(&res.Product),
		InstallationOptions: options,
	})
}

// relatedProducts
//
//	@Summary	Похожие товары
//	@Tags		products
//	@Produce	json
//	@Param		id		path		int	true	"ID товара"
//	@Param		limit	query		int	false	"Количество"
//	@Success	200		{array}		ProductResponse
//	@Router		/products/{id}/related [get]
func (p *ProductHandler) relatedProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	limit, err := queryInt(r, "limit", defaultRelatedLimit)
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := p.productUsecase.RelatedProducts(r.Context(), id, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// quote
//
//	@Summary	Расчет стоимости покупки с монтажом
//	@Tags		products
//	@Produce	json
//	@Param		id				path		int		true	"ID товара"
//	@Param		quantity		query		int		false	"Количество"
//	@Param		installation	query		string	false	"standard, premium, professional"
//	@Success	200				{object}	QuoteResponse
//	@Failure	422				{object}	ErrorResponse
//	@Router		/products/{id}/quote [get]
func (p *ProductHandler) quote(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	quantity, err := queryInt(r, "quantity", 1)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.Quote(r.Context(), usecase.NewQuoteReq(id, quantity, r.URL.Query().Get("installation")))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toQuoteResponse(res))
}

// registerNewProduct
//
//	@Summary		Регистрация нового товара
//	@Description	Создает новый товар в каталоге с изображениями
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			title			formData	string	true	"Название товара"
//	@Param			category		formData	string	true	"Категория"
//	@Param			brand			formData	string	true	"Бренд"
//	@Param			price			formData	number	true	"Цена"
//	@Param			description		formData	string	false	"Описание"
//	@Param			efficiency		formData	string	false	"Класс энергоэффективности"
//	@Param			rating			formData	number	false	"Рейтинг 0-5"
//	@Param			inStock			formData	bool	false	"В наличии"
//	@Param			features		formData	string	false	"Особенности через запятую"
//	@Param			specifications	formData	string	false	"Характеристики, JSON-объект"
//	@Param			images			formData	file	true	"Изображения товара"
//	@Success		201				{object}	map[string]any	"Товар создан или изменен"
//	@Success		200				{object}	map[string]any	"Изменений нет"
//	@Failure		400				{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) registerNewProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 150 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	req, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["images"])
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}
	req.Images = images

	event, err := p.productUsecase.RegisterNewProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("register product %q: %v", req.Title, err)
		WriteError(w, err)
		return
	}

	if event == nil {
		WriteSuccess(w, http.StatusOK, map[string]any{"changed": false})
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]any{
		"changed":   true,
		"eventId":   event.EventID,
		"productId": event.AggregateID,
	})
}
