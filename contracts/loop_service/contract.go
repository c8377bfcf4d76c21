package loop_service

// TemplateRequest represents the request payload for saving the contract template
type TemplateRequest struct {
	Template string `json:"template" validate:"required,max=20000"`
}

// TemplateResponse carries the contract template
type TemplateResponse struct {
	Template string `json:"template"`
}

// RenderedContractResponse carries a contract filled in for one sale
type RenderedContractResponse struct {
	SaleID   int64  `json:"saleId"`
	Contract string `json:"contract"`
}
