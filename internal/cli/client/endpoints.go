package client

const (
	// Chat endpoint, multipart request, SSE response
	endpointChat = "/chat"

	// Health endpoints
	endpointPing = "/ping"
)
