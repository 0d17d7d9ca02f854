package constants

// 订单状态常量
const (
	OrderStateBasket    = "basket"
	OrderStateNew       = "new"
	OrderStateConfirmed = "confirmed"
	OrderStateAssembled = "assembled"
	OrderStateSent      = "sent"
	OrderStateDelivered = "delivered"
	OrderStateCanceled  = "canceled"
)

// OrderStates 全部订单状态（按流转顺序）
var OrderStates = []string{
	OrderStateBasket,
	OrderStateNew,
	OrderStateConfirmed,
	OrderStateAssembled,
	OrderStateSent,
	OrderStateDelivered,
	OrderStateCanceled,
}

// 用户类型常量
const (
	UserTypeBuyer = "buyer"
	UserTypeShop  = "shop"
)

// 授权角色常量
const (
	RoleBuyer = "role:buyer"
	RoleShop  = "role:shop"
)

// 队列常量
const (
	QueueDefault              = "default"
	QueueCritical             = "critical"
	TaskOrderStatusEmail      = "order:status_email"
	TaskRegisterConfirmEmail  = "user:register_confirm_email"
	TaskPasswordResetEmail    = "user:password_reset_email"
	TaskMaxRetryEmail         = 5
	EmailTaskTimeoutSeconds   = 30
	ConfirmEmailTokenByteSize = 24
	AuthTokenByteSize         = 20
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "orders"
)

// 响应载荷键（沿用既有客户端约定）
const (
	ResponseKeyUpdated = "Объектов обновлено"
	ResponseKeyDeleted = "Объектов удалено"
	ResponseKeyCreated = "Создано объектов"
)

// 商品查询参数
const (
	QueryProductName     = "product__name"
	QueryShopID          = "shop_id"
	QueryProductCategory = "product__category_id"
)

// 请求上下文键
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserType  = "user_type"
	ContextKeyRequestID = "request_id"
)
