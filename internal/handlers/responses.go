package handlers

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoginResponse is returned on successful login or registration.
type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// ChatResponse carries the AI reply. The chat endpoint returns this with a
// 200 even when the reply is the degraded fallback.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// QRCodeResponse is returned by the QR upload endpoint. QRCode is a PNG
// data URI encoding the file's download link.
type QRCodeResponse struct {
	Message string `json:"message"`
	QRCode  string `json:"qrcode"`
}

// PresenceResponse reports the current connection count and the distinct
// usernames online.
type PresenceResponse struct {
	Count     int      `json:"count"`
	Usernames []string `json:"usernames"`
}
