package model

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Description string  `json:"description" validate:"required,max=255"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	IsAvailable bool    `json:"is_available"`
}
