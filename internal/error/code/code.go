package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 认证相关错误码 (101xxx).
const (
	// ErrNoToken - 401: 未提供认证令牌.
	ErrNoToken int = iota + 101000
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrLoginFailed - 401: 邮箱或密码错误.
	ErrLoginFailed
)

// 用户/组织相关错误码 (102xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 102000
	// ErrNoOrganizations - 404: 用户未关联任何组织.
	ErrNoOrganizations
	// ErrUserLookupFailed - 500: 用户数据查询失败.
	ErrUserLookupFailed
	// ErrOrgLookupFailed - 500: 组织数据查询失败.
	ErrOrgLookupFailed
)

// 聚合管道各阶段错误码 (103xxx).
const (
	// ErrProjectLookupFailed - 500: 项目查询失败.
	ErrProjectLookupFailed int = iota + 103000
	// ErrHubLookupFailed - 500: hub查询失败.
	ErrHubLookupFailed
	// ErrHubUserLookupFailed - 500: hub成员查询失败.
	ErrHubUserLookupFailed
	// ErrOwnerLookupFailed - 500: 业主信息查询失败.
	ErrOwnerLookupFailed
	// ErrAdminLookupFailed - 500: 管理员查询失败.
	ErrAdminLookupFailed
	// ErrTicketLookupFailed - 500: 工单查询失败.
	ErrTicketLookupFailed
	// ErrAlertLookupFailed - 500: 告警查询失败.
	ErrAlertLookupFailed
	// ErrTimeout - 500: 请求超时.
	ErrTimeout
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
