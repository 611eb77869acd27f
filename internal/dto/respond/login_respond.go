package respond

// LoginRespond 登录响应
// 同时返回双 Token，Access Token 用于接口调用和 WebSocket 握手
type LoginRespond struct {
	Uuid         string `json:"uuid"`
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
