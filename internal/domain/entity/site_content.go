package entity

import "time"

// SliderItem diapositiva del carrusel de la portada.
type SliderItem struct {
	ID          string
	Title       string
	Subtitle    string
	Description string
	Image       string
	ButtonText  string
	ButtonLink  string
	Active      bool
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamMember miembro del equipo mostrado en "À propos".
type TeamMember struct {
	ID        string
	Name      string
	Position  string
	Bio       string
	Photo     string
	Email     string
	LinkedIn  string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Testimonial opinión de cliente. Rating entre 1 y 5.
type Testimonial struct {
	ID             string
	ClientName     string
	ClientPosition string
	ClientCompany  string
	ClientAvatar   string
	Content        string
	Rating         int
	ServiceID      *string
	Featured       bool
	Order          int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Certification certificación o acreditación (ISO 9001, ...). Code es único.
type Certification struct {
	ID          string
	Name        string
	Code        string
	Description string
	Image       string
	Category    string
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
