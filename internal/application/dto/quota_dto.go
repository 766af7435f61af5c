package dto

// RecursoUso uso de un recurso contra su tope de plan.
type RecursoUso struct {
	Tipo       string   `json:"tipo"` // PRODUCTOS | USUARIOS | VENTAS
	Actual     int      `json:"actual"`
	Limite     *int     `json:"limite"`     // null = ilimitado
	Porcentaje *float64 `json:"porcentaje"` // null si el límite es ilimitado
}

// UsoResponse foto del consumo del kiosco contra su plan. ProximoLimite es el
// recurso más cerca de su tope; null cuando todos los límites son ilimitados.
type UsoResponse struct {
	KioscoID      string       `json:"kioscoId"`
	PlanName      string       `json:"planName"`
	Recursos      []RecursoUso `json:"recursos"`
	ProximoLimite *string      `json:"proximoLimite"`
}

// CuotaExcedidaResponse cuerpo de error cuando una creación supera la cuota.
type CuotaExcedidaResponse struct {
	Code     string `json:"code"` // QUOTA_EXCEEDED
	Message  string `json:"message"`
	Tipo     string `json:"limitType"` // PRODUCTOS | USUARIOS | VENTAS
	Actual   int    `json:"current"`
	Limite   int    `json:"limit"`
	PlanName string `json:"planName"`
}
