package auth

// MessageResponse es la respuesta genérica con mensaje para el cliente.
// La usan verify-email y 2fa/verify.
type MessageResponse struct {
	Message string `json:"message"`
}
