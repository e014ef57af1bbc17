package handlers

// MessageResponse is a plain message body.
type MessageResponse struct {
	Body struct {
		Message string `doc:"Human readable message" example:"You accessed protected data!" json:"message"`
	}
}

// PingResponse is the response for the liveness endpoint.
type PingResponse struct {
	Body struct {
		Status string `doc:"Always ok while the process serves requests" example:"ok" json:"status"`
	}
}
