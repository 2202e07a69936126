package model

// UserRegistrationRequest 注册请求
type UserRegistrationRequest struct {
	UserName             string `json:"user_name" binding:"required"`
	UserEmail            string `json:"user_email" binding:"required,email"`
	Password             string `json:"password" binding:"required"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token 登录成功返回的访问令牌
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// UserProfileResponse 用户画像响应，preferences 为偏好值列表
type UserProfileResponse struct {
	UserID      int64    `json:"user_id"`
	UserName    string   `json:"user_name"`
	UserEmail   string   `json:"user_email"`
	Preferences []string `json:"preferences"`
	CreatedAt   string   `json:"created_at"`
}
