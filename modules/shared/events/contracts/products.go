package contracts

// ProductPayload is the catalog view of a product carried on product events.
type ProductPayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// FieldChange records an old/new pair for a changed product field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ProductCreated is emitted when a product is added to the catalog.
type ProductCreated struct {
	ProductID string         `json:"product_id"`
	Product   ProductPayload `json:"product"`
}

// ProductUpdated is emitted when catalog fields change. Changes carries only
// the fields that actually differ; price-sync consumers key off it.
type ProductUpdated struct {
	ProductID string                 `json:"product_id"`
	Product   ProductPayload         `json:"product"`
	Changes   map[string]FieldChange `json:"changes"`
}

// ProductDeleted is emitted when a product is removed from the catalog.
type ProductDeleted struct {
	ProductID string `json:"product_id"`
}

// ProductStockUpdated is emitted by every stock mutation, event-driven or
// CRUD.
type ProductStockUpdated struct {
	ProductID string `json:"product_id"`
	OldStock  int    `json:"old_stock"`
	NewStock  int    `json:"new_stock"`
	Change    int    `json:"change"`
}
