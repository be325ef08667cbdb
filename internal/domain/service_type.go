package domain

import "time"

// ServiceType описывает услугу, которую можно забронировать
type ServiceType struct {
	ID              string // installation, maintenance, repair, inspection
	Name            string
	DurationMinutes int
	Price           int64 // в центах
	Description     string
}

func (s *ServiceType) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
