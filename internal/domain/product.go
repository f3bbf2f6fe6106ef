package domain

import "time"

type Product struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	ImageUrl    string    `db:"image_url"`
	Variants    []Variant `db:"variants"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	DeletedAt time.Time `db:"deleted_at" json:"-"`
}

// Variant is one purchasable configuration (color/size) of a product with its
// own stock and price. Price is kept in minor currency units.
type Variant struct {
	ID        int64  `db:"id"`
	ProductID int64  `db:"product_id"`
	Color     string `db:"color"`
	Size      string `db:"size"`
	Stock     int64  `db:"stock"`
	Price     int64  `db:"price"`
	ImageUrl  string `db:"image_url"`
}

func (p *Product) FindVariant(variantID int64) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}

	return nil
}

type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	ImageUrl    *string `json:"image_url"`
}
