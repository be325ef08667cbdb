package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const maxJSONBody = 1 << 20

type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func NewErrorResponse(code int, message string, fields map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Fields:  fields,
	}
}

// порядок важен: более конкретные ошибки раньше общих
var errorStatuses = []struct {
	err  error
	code int
}{
	{e.ErrStatusBadRequest, http.StatusBadRequest},
	{e.ErrExpectedMultipart, http.StatusBadRequest},
	{e.ErrMissingFields, http.StatusBadRequest},
	{e.ErrInvalidPrice, http.StatusBadRequest},
	{e.ErrPricePrecision, http.StatusBadRequest},
	{e.ErrTooManyImages, http.StatusBadRequest},
	{e.ErrNoImages, http.StatusBadRequest},
	{e.ErrProductNameRequired, http.StatusBadRequest},
	{e.ErrPriceMustBePositive, http.StatusBadRequest},
	{e.ErrNoProducts, http.StatusBadRequest},
	{e.ErrInvalidJSON, http.StatusBadRequest},
	{e.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},

	{e.ErrInvalidCredentials, http.StatusUnauthorized},
	{e.ErrUnauthorized, http.StatusUnauthorized},
	{e.ErrForbidden, http.StatusForbidden},

	{e.ErrProductNotFound, http.StatusNotFound},
	{e.ErrServiceNotFound, http.StatusNotFound},
	{e.ErrTechnicianNotFound, http.StatusNotFound},
	{e.ErrAppointmentNotFound, http.StatusNotFound},
	{e.ErrWizardNotFound, http.StatusNotFound},
	{e.ErrUserNotFound, http.StatusNotFound},
	{e.ErrNotFound, http.StatusNotFound},

	{e.ErrStepIncomplete, http.StatusConflict},
	{e.ErrWrongStep, http.StatusConflict},
	{e.ErrAvailabilityConflict, http.StatusConflict},
	{e.ErrInvalidStatusTransition, http.StatusConflict},
	{e.ErrCancellationWindow, http.StatusConflict},
	{e.ErrBookingInProgress, http.StatusConflict},
	{e.ErrEmailTaken, http.StatusConflict},

	{e.ErrPaymentDeclined, http.StatusPaymentRequired},
	{e.ErrPaymentFailed, http.StatusBadGateway},
	{e.ErrGatewayUnavailable, http.StatusBadGateway},
	{e.ErrPersistence, http.StatusServiceUnavailable},
}

// ToHTTPResponse возвращает код, сообщение и, для ошибок валидации, ошибки по полям.
func ToHTTPResponse(err error) (int, string, map[string]string) {
	if v, ok := e.AsValidation(err); ok {
		return http.StatusUnprocessableEntity, e.ErrValidation.Error(), v.Fields
	}

	var pe *e.PaymentError
	if errors.As(err, &pe) {
		if pe.Declined {
			return http.StatusPaymentRequired, pe.Error(), nil
		}
		return http.StatusBadGateway, pe.Error(), nil
	}

	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return s.code, strings.TrimSuffix(s.err.Error(), ": "+e.ErrNotFound.Error()), nil
		}
	}

	return http.StatusInternalServerError, e.ErrInternalServerError.Error(), nil
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg, fields := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg, fields))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса; неизвестные поля запрещены.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidJSON)
	}
	if dec.More() {
		return e.ErrInvalidJSON
	}

	return nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Field(name, "must be a positive integer")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, e.Field(name, "must be an integer")
	}
	return v, nil
}

// parsePriceToCents переводит "599.99" или "600" в центы.
// Отрицательные значения и цены больше миллиарда отклоняются.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrMissingFields
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) || d.GreaterThan(decimal.NewFromInt(1_000_000_000)) {
		return 0, e.ErrInvalidPrice
	}

	return domain.DecimalToCents(d)
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// parseProductForm собирает запрос на добавление товара из полей формы.
// features через запятую, specifications JSON-объектом.
func parseProductForm(r *http.Request) (*usecase.AddNewProductReq, error) {
	title := strings.TrimSpace(r.FormValue("title"))
	category := strings.TrimSpace(r.FormValue("category"))
	brand := strings.TrimSpace(r.FormValue("brand"))
	priceStr := r.FormValue("price")

	if title == "" || category == "" || brand == "" || priceStr == "" {
		return nil, e.Wrap(fmt.Sprintf("title: %q, category: %q, brand: %q, price: %q", title, category, brand, priceStr), e.ErrMissingFields)
	}

	price, err := parsePriceToCents(priceStr)
	if err != nil {
		return nil, err
	}

	req := usecase.NewAddNewProductReq(title, category, brand, price, nil)
	req.Description = strings.TrimSpace(r.FormValue("description"))
	req.Efficiency = strings.TrimSpace(r.FormValue("efficiency"))

	if raw := r.FormValue("rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, e.Field("rating", "must be a number")
		}
		req.Rating = rating
	}

	if raw := r.FormValue("inStock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, e.Field("inStock", "must be true or false")
		}
		req.InStock = inStock
	}

	for _, f := range strings.Split(r.FormValue("features"), ",") {
		if f = strings.TrimSpace(f); f != "" {
			req.Features = append(req.Features, f)
		}
	}

	if raw := r.FormValue("specifications"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Specifications); err != nil {
			return nil, e.Field("specifications", "must be a JSON object of strings")
		}
	}

	return req, nil
}

func parseImages(files []*multipart.FileHeader) ([]usecase.ProductImage, error) {
	const (
		maxImageCount = 10
		maxFileSize   = 15 << 20
	)

	if len(files) == 0 {
		return nil, e.ErrNoImages
	}
	if len(files) > maxImageCount {
		return nil, e.ErrTooManyImages
	}

	images := make([]usecase.ProductImage, 0, len(files))
	for _, fh := range files {
		data, mimeType, err := readFile(fh, maxFileSize)
		if err != nil {
			return nil, err
		}
		images = append(images, *usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename))
	}
	return images, nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
