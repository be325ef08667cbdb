package converter

type ProductInfoRedisModel struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryName string `json:"category_name"`
	Brand        string `json:"brand"`
	Price        int64  `json:"price"`
	InStock      bool   `json:"in_stock"`
}

// ProductRedisModel карточка товара в закэшированном каталоге.
type ProductRedisModel struct {
	ID             int64             `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Price          int64             `json:"price"`
	Rating         float64           `json:"rating"`
	ImageURL       string            `json:"image_url"`
	Features       []string          `json:"features"`
	Efficiency     string            `json:"efficiency"`
	InStock        bool              `json:"in_stock"`
	CategoryID     int64             `json:"category_id"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Position       int               `json:"position"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

// WizardRedisModel черновик записи; дата хранится как YYYY-MM-DD без часового пояса.
type WizardRedisModel struct {
	ID            string `json:"id"`
	UserID        int64  `json:"user_id"`
	Step          int    `json:"step"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	ServiceTypeID string `json:"service_type_id,omitempty"`
	TechnicianID  string `json:"technician_id,omitempty"`
	Address       string `json:"address,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}
