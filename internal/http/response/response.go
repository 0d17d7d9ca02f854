package response

import (
	"github.com/gin-gonic/gin"
)

// 响应体固定键
const (
	KeyStatus    = "Status"
	KeyData      = "Data"
	KeyError     = "Error"
	KeyErrors    = "Errors"
	KeyRequestID = "request_id"
)

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 根据总数计算分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPage: totalPage}
}

// Success 成功响应：{"Status": true, ...payload}
func Success(c *gin.Context, payload gin.H) {
	write(c, CodeOK, true, payload)
}

// Created 创建成功响应
func Created(c *gin.Context, payload gin.H) {
	write(c, CodeCreated, true, payload)
}

// Data 成功响应，数据放在 Data 键
func Data(c *gin.Context, data interface{}) {
	write(c, CodeOK, true, gin.H{KeyData: data})
}

// DataWithPage 分页成功响应
func DataWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	write(c, CodeOK, true, gin.H{KeyData: data, "pagination": pagination})
}

// Error 错误响应：{"Status": false, "Error": msg}
func Error(c *gin.Context, code int, msg string) {
	write(c, code, false, gin.H{KeyError: msg})
}

// ErrorWithFields 字段级错误响应：{"Status": false, "Errors": errs}
func ErrorWithFields(c *gin.Context, code int, errs interface{}) {
	write(c, code, false, gin.H{KeyErrors: errs})
}

// ErrorWithPayload 错误响应附带额外载荷
func ErrorWithPayload(c *gin.Context, code int, msg string, payload gin.H) {
	body := gin.H{KeyError: msg}
	for key, value := range payload {
		body[key] = value
	}
	write(c, code, false, body)
}

func write(c *gin.Context, code int, ok bool, payload gin.H) {
	body := gin.H{KeyStatus: ok}
	for key, value := range payload {
		body[key] = value
	}
	if requestID := requestIDFrom(c); requestID != "" {
		body[KeyRequestID] = requestID
	}
	c.JSON(code, body)
}

func requestIDFrom(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get(KeyRequestID); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
