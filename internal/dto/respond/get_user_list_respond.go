package respond

// GetUserListRespond 用户列表响应（联系人侧边栏）
type GetUserListRespond struct {
	Uuid     string `json:"uuid"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
