package code

// 错误码消息映射
// 消息文本与前端约定保持一致，不可随意改动
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "OK",
	ErrUnknown:         "Internal server error.",
	ErrBind:            "Invalid request payload.",
	ErrValidation:      "Invalid request parameters.",
	ErrTooManyRequests: "Too many requests.",

	// 认证相关错误码
	ErrNoToken:      "No token provided",
	ErrTokenInvalid: "Invalid token",
	ErrLoginFailed:  "Invalid email or password.",

	// 用户/组织相关错误码
	ErrUserNotFound:     "User not found.",
	ErrNoOrganizations:  "No organizations found for user.",
	ErrUserLookupFailed: "Failed to fetch user data.",
	ErrOrgLookupFailed:  "Failed to fetch organization data.",

	// 聚合管道各阶段错误码
	ErrProjectLookupFailed: "Failed to fetch projects.",
	ErrHubLookupFailed:     "Failed to fetch hubs.",
	ErrHubUserLookupFailed: "Failed to fetch hub users.",
	ErrOwnerLookupFailed:   "Failed to fetch owner data.",
	ErrAdminLookupFailed:   "Failed to fetch admin users.",
	ErrTicketLookupFailed:  "Failed to fetch tickets.",
	ErrAlertLookupFailed:   "Failed to fetch alerts.",
	ErrTimeout:             "Request timed out.",

	// 数据库相关错误码
	ErrDatabase:       "Database error.",
	ErrRecordNotFound: "Record not found.",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTooManyRequests: StatusTooManyRequests,

	// 认证相关错误码
	ErrNoToken:      StatusUnauthorized,
	ErrTokenInvalid: StatusUnauthorized,
	ErrLoginFailed:  StatusUnauthorized,

	// 用户/组织相关错误码
	ErrUserNotFound:     StatusNotFound,
	ErrNoOrganizations:  StatusNotFound,
	ErrUserLookupFailed: StatusInternalServerError,
	ErrOrgLookupFailed:  StatusInternalServerError,

	// 聚合管道各阶段错误码
	ErrProjectLookupFailed: StatusInternalServerError,
	ErrHubLookupFailed:     StatusInternalServerError,
	ErrHubUserLookupFailed: StatusInternalServerError,
	ErrOwnerLookupFailed:   StatusInternalServerError,
	ErrAdminLookupFailed:   StatusInternalServerError,
	ErrTicketLookupFailed:  StatusInternalServerError,
	ErrAlertLookupFailed:   StatusInternalServerError,
	ErrTimeout:             StatusInternalServerError,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "Internal server error."
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
