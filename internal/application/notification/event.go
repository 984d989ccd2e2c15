package notification

// Event es la forma uniforme con la que cualquier productor de eventos de
// negocio (órdenes, pagos, entregas, alertas de stock, mensajería) entra al
// router. Es el único contrato de ingestión hacia notificaciones.
type Event struct {
	RecipientID   string
	Category      string
	Title         string
	Body          string
	ReferenceType string
	ReferenceID   string
	Priority      string
}
