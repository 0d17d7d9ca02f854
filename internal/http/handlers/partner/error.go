package partner

import (
	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/service"

	"github.com/gin-gonic/gin"
)

var partnerErrorRules = handlershared.ConcatMappedErrors([]handlershared.MappedError{
	{Target: service.ErrShopNotFound, Code: response.CodeNotFound, Key: "error.shop_not_found"},
	{Target: service.ErrCatalogURLInvalid, Code: response.CodeBadRequest, Key: "error.catalog_url_invalid"},
	{Target: service.ErrCatalogFetchFailed, Code: response.CodeBadGateway, Key: "error.catalog_fetch_failed"},
	{Target: service.ErrCatalogMalformed, Code: response.CodeBadRequest, Key: "error.catalog_malformed"},
}, handlershared.CommonErrorRules)

func respondPartnerError(c *gin.Context, err error) {
	handlershared.RespondWithMappedError(c, err, partnerErrorRules, response.CodeInternal, "error.internal")
}

// currentUser 读取当前账户 ID 与类型
func currentUser(c *gin.Context) (uint, string, bool) {
	userID, ok := handlershared.GetUserID(c)
	if !ok {
		return 0, "", false
	}
	return userID, handlershared.GetUserType(c), true
}
