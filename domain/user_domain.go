package domain

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessLogout         = "logout successful"
	MessageSuccessGetUsers       = "success get users"
	MessageSuccessGetUser        = "success get user"
	MessageSuccessSetPassword    = "password changed successfully"
	MessageSuccessSubscribe      = "subscribed successfully"
	MessageSuccessUnsubscribe    = "unsubscribed successfully"
	MessageSuccessGetSubscribers = "success get subscriptions"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedLogout           = "failed to logout"
	MessageFailedGetUsers         = "failed to get users"
	MessageFailedGetUser          = "failed to get user"
	MessageFailedSetPassword      = "failed to change password"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound       = kindError(ErrNotFound, "user not found")
	ErrEmailTaken         = kindError(ErrConflict, "email is already registered")
	ErrUsernameTaken      = kindError(ErrConflict, "username is already taken")
	ErrInvalidCredentials = kindError(ErrUnauthorized, "invalid email or password")
	ErrWrongPassword      = kindError(ErrValidation, "current password is incorrect")
	ErrSelfFollow         = kindError(ErrValidation, "you cannot subscribe to yourself")
	ErrAlreadyFollowing   = kindError(ErrConflict, "you are already subscribed to this author")
	ErrNotFollowing       = kindError(ErrConflict, "you are not subscribed to this author")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	UserListResponse struct {
		Users      []UserResponse `json:"users"`
		Pagination Pagination     `json:"pagination"`
	}

	SubscriptionResponse struct {
		UserResponse
		Recipes      []RecipeShortResponse `json:"recipes"`
		RecipesCount int64                 `json:"recipes_count"`
	}

	SubscriptionListResponse struct {
		Subscriptions []SubscriptionResponse `json:"subscriptions"`
		Pagination    Pagination             `json:"pagination"`
	}
)
