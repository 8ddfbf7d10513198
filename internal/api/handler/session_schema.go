package handler

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

type switchRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ATTENDEE VOLUNTEER"`
}

type sessionResponse struct {
	State      string `json:"state"`
	User       any    `json:"user,omitempty"`
	Landing    string `json:"landing,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}
