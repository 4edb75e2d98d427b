package dto

type RegisterDTO struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,strongpwd"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutDTO struct {
	AccessToken string `json:"access_token" validate:"required"`
}

type ValidateDTO struct {
	AccessToken string `json:"access_token" validate:"required"`
}

type EmailDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmDTO struct {
	Token              string `json:"token"                validate:"required"`
	NewPassword        string `json:"new_password"         validate:"required,strongpwd"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
}

type ChangePasswordDTO struct {
	OldPassword        string `json:"old_password"         validate:"required"`
	NewPassword        string `json:"new_password"         validate:"required,strongpwd"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
}

type UpdateProfileDTO struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	State     *string `json:"state"`
	Country   *string `json:"country"`
	Avatar    *string `json:"avatar"`
	Bio       *string `json:"bio"`
	Gender    *string `json:"gender"`
	FCMToken  *string `json:"fcm_token"`
}
