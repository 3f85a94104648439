package dto

// ContactRequest formulario público de contacto.
type ContactRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Phone   string `json:"phone" form:"phone" validate:"max=20"`
	Company string `json:"company" form:"company" validate:"max=200"`
	Subject string `json:"subject" form:"subject" validate:"required,max=200"`
	Message string `json:"message" form:"message" validate:"required"`
}

// ContactResponse confirmación del envío.
type ContactResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
