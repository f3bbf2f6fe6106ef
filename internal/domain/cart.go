package domain

// CartLine is a checkout line as submitted by the storefront. Price is the
// unit price snapshot the client saw; stock is re-validated against the live
// catalog at commit, price is not.
type CartLine struct {
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Quantity  int32  `json:"quantity"`
	Price     int64  `json:"price"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	ImageUrl  string `json:"image_url"`
}

// Customer carries checkout identity. PaymentMethod is a display label only,
// no gateway is involved.
type Customer struct {
	UID           string `json:"uid"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PaymentMethod string `json:"payment_method"`
}
