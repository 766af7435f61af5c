package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP genérico.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubscriptionRequiredResponse es el cuerpo del bloqueo HTTP 402 del gate de
// suscripción. El campo Code es estable y legible por máquina.
type SubscriptionRequiredResponse struct {
	Error    string `json:"error"` // siempre "Subscription Required"
	Message  string `json:"message"`
	Code     string `json:"code"` // SUBSCRIPTION_EXPIRED | SUBSCRIPTION_CANCELLED | NO_SUBSCRIPTION
	RenewURL string `json:"renewUrl"`
	Status   int    `json:"status"` // siempre 402
}
