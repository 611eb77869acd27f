package respond

// RegisterRespond 注册响应
type RegisterRespond struct {
	Uuid         string `json:"uuid"`
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
