package dto

type LoginInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	UserAgent string `json:"-"`
}

// LoginUser mirrors the identity cached in the server-side session.
type LoginUser struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	SessionStartTime string `json:"sessionStartTime"`
}

type LoginOutput struct {
	Message string    `json:"message"`
	User    LoginUser `json:"user"`
	Token   string    `json:"token"`
}
