package models

type HealthResponse struct {
	OK bool `json:"ok"`
}

type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type CreateOrderResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type ChatResponse struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
}

type OrderListResponse struct {
	Orders []OrderSummary `json:"orders"`
}

type OrderSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	BrandName string `json:"brandName,omitempty"`
	FileURL   string `json:"fileUrl"`
	OrderURL  string `json:"orderUrl"`
	CreatedAt string `json:"createdAt"`
}
