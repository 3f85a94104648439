package dto

// Entradas del back-office para el contenido del sitio. Los checkbox llegan como bool.

// BlogCategoryRequest alta/edición de categoría del blog.
type BlogCategoryRequest struct {
	Name        string `form:"name" validate:"required,max=100"`
	Slug        string `form:"slug" validate:"max=100"`
	Description string `form:"description"`
	Color       string `form:"color" validate:"omitempty,hexcolor"`
	Order       int    `form:"order"`
}

// ArticleRequest alta/edición de artículo.
type ArticleRequest struct {
	Title         string `form:"title" validate:"required,max=200"`
	Slug          string `form:"slug" validate:"max=200"`
	CategoryID    string `form:"category_id"`
	Excerpt       string `form:"excerpt" validate:"required,max=300"`
	Content       string `form:"content" validate:"required"`
	FeaturedImage string `form:"featured_image"`
	Status        string `form:"status" validate:"omitempty,oneof=draft published archived"`
	Featured      bool   `form:"featured"`
}

// SliderRequest alta/edición de diapositiva.
type SliderRequest struct {
	Title       string `form:"title" validate:"required,max=200"`
	Subtitle    string `form:"subtitle" validate:"max=300"`
	Description string `form:"description"`
	Image       string `form:"image" validate:"required"`
	ButtonText  string `form:"button_text" validate:"max=50"`
	ButtonLink  string `form:"button_link" validate:"max=200"`
	Active      bool   `form:"active"`
	Order       int    `form:"order"`
}

// TeamMemberRequest alta/edición de miembro del equipo.
type TeamMemberRequest struct {
	Name     string `form:"name" validate:"required,max=100"`
	Position string `form:"position" validate:"required,max=100"`
	Bio      string `form:"bio"`
	Photo    string `form:"photo"`
	Email    string `form:"email" validate:"omitempty,email"`
	LinkedIn string `form:"linkedin" validate:"omitempty,url"`
	Order    int    `form:"order"`
}

// TestimonialRequest alta/edición de testimonio.
type TestimonialRequest struct {
	ClientName     string `form:"client_name" validate:"required,max=100"`
	ClientPosition string `form:"client_position" validate:"max=100"`
	ClientCompany  string `form:"client_company" validate:"max=200"`
	ClientAvatar   string `form:"client_avatar"`
	Content        string `form:"content" validate:"required"`
	Rating         int    `form:"rating" validate:"min=1,max=5"`
	ServiceID      string `form:"service_id"`
	Featured       bool   `form:"featured"`
	Order          int    `form:"order"`
}

// CertificationRequest alta/edición de certificación.
type CertificationRequest struct {
	Name        string `form:"name" validate:"required,max=200"`
	Code        string `form:"code" validate:"required,max=50"`
	Description string `form:"description"`
	Image       string `form:"image"`
	Category    string `form:"category" validate:"max=100"`
	Order       int    `form:"order"`
}

// ContactListQuery filtros del listado de mensajes de contacto.
type ContactListQuery struct {
	Status string `query:"status"`
	Search string `query:"search"`
	PageRequest
}
