package dto

type GateRequest struct {
	Password string `json:"password" form:"password"`
}

type GateResponse struct {
	Authenticated bool   `json:"authenticated"`
	Gate          string `json:"gate"`
}

type UpdateContextRequest struct {
	Location string `json:"location" form:"location" validate:"required,oneof=Singapore Others"`
	Need     string `json:"need" form:"need" validate:"required,oneof=CPF"`
}

type SessionResponse struct {
	Gate     string `json:"gate"`
	Location string `json:"location"`
	Need     string `json:"need"`
}
