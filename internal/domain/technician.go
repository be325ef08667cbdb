package domain

// Technician описывает мастера сервисной службы
type Technician struct {
	ID             string
	Name           string
	Specialization string
	Rating         float64
	Available      bool
	ImageURL       string
}

// Selectable сообщает, можно ли выбрать мастера при записи.
func (t *Technician) Selectable() bool {
	return t.Available
}
