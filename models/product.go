package models

// Term is a product category or tag.
type Term struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Image is a product image attachment.
type Image struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`
}

// Variation is one purchasable variant of a variable product.
type Variation struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// Product is the commerce record attached to a content item of type product.
type Product struct {
	ID               int64       `json:"id"`
	ShortDescription string      `json:"short_description"`
	Attributes       []string    `json:"attributes"`
	Categories       []Term      `json:"categories"`
	Tags             []Term      `json:"tags"`
	MainImage        *Image      `json:"main_image,omitempty"`
	Gallery          []Image     `json:"gallery"`
	ReviewCount      int         `json:"review_count"`
	Price            string      `json:"price"`
	SKU              string      `json:"sku"`
	Variable         bool        `json:"variable"`
	Variations       []Variation `json:"variations"`
	RelatedIDs       []int64     `json:"related_ids"`
	InStock          bool        `json:"in_stock"`
}

// ProductScore pairs an analyzed product with its categories.
type ProductScore struct {
	ContentID  int64  `json:"post_id"`
	Title      string `json:"title"`
	Score      int    `json:"score"`
	Categories []Term `json:"categories"`
}

// CategoryScore is one entry of the category ranking.
type CategoryScore struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	ProductCount int           `json:"product_count"`
	AverageScore int           `json:"average_score"`
	Best         *ProductScore `json:"best_product"`
	Worst        *ProductScore `json:"worst_product"`
}
