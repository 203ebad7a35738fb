package domain

type Variant struct {
	SizeID   int64  `json:"sizeId"`
	ColorID  int64  `json:"colorId"`
	Quantity int    `json:"quantity"`
	Barcode  string `json:"barcode,omitempty"`
}

type ProductImage struct {
	URL       string `json:"url"`
	PostOrder int    `json:"postOrder"`
}

type Product struct {
	ProductID       int64          `json:"productId"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	CategoryID      int64          `json:"categoryId,omitempty"`
	CollectionID    int64          `json:"collectionId,omitempty"`
	Gender          string         `json:"gender,omitempty"`
	BasePrice       float64        `json:"basePrice"`
	DiscountedPrice float64        `json:"discountedPrice"`
	Variants        []Variant      `json:"variants,omitempty"`
	Images          []ProductImage `json:"images,omitempty"`
}

// ProductFilter carries the catalog listing filters. Fields are kept as
// strings because they pass through to the upstream query untouched;
// only non-empty fields are emitted.
type ProductFilter struct {
	CategoryID         string
	Gender             string
	MinBasePrice       string
	MaxBasePrice       string
	MinDiscountedPrice string
	MaxDiscountedPrice string
	Limit              int
	Offset             int
}
