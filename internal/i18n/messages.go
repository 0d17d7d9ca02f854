package i18n

var messages = map[string]map[string]string{
	LocaleRU: {
		"error.bad_request":            "Отсутствуют обязательные аргументы",
		"error.validation_failed":      "Некорректные данные запроса",
		"error.unauthorized":           "Требуется авторизация",
		"error.token_invalid":          "Недействительный токен",
		"error.user_inactive":          "Учётная запись не активирована",
		"error.forbidden":              "Доступ запрещён",
		"error.forbidden_user_type":    "Только для магазинов",
		"error.not_found":              "Объект не найден",
		"error.integrity_conflict":     "Нарушение целостности данных",
		"error.email_exists":           "Пользователь с таким e-mail уже существует",
		"error.email_invalid":          "Некорректный адрес e-mail",
		"error.invalid_credentials":    "Авторизация не удалась",
		"error.confirm_token_invalid":  "Токен или адрес e-mail указаны неверно",
		"error.reset_token_invalid":    "Ссылка для сброса пароля недействительна или устарела",
		"error.contact_not_found":      "Контакт не найден",
		"error.shop_not_found":         "Магазин не найден",
		"error.order_not_found":        "Заказ не найден",
		"error.product_info_not_found": "Товар не найден или недоступен",
		"error.basket_empty":           "Корзина пуста",
		"error.quantity_invalid":       "Количество должно быть положительным целым числом",
		"error.items_invalid":          "Неверный формат запроса",
		"error.boolean_invalid":        "Неверное логическое значение",
		"error.catalog_url_invalid":    "Некорректный URL каталога",
		"error.catalog_fetch_failed":   "Не удалось загрузить каталог",
		"error.catalog_malformed":      "Некорректный формат каталога",
		"error.too_many_requests":      "Слишком много запросов, повторите через %d сек.",
		"error.rate_limit_unavailable": "Сервис ограничения запросов недоступен",
		"error.internal":               "Внутренняя ошибка сервера",

		"error.password_min_length":      "Пароль должен содержать не менее %d символов",
		"error.password_require_upper":   "Пароль должен содержать заглавную букву",
		"error.password_require_lower":   "Пароль должен содержать строчную букву",
		"error.password_require_number":  "Пароль должен содержать цифру",
		"error.password_require_special": "Пароль должен содержать специальный символ",

		"field.required": "Обязательное поле",
		"field.email":    "Некорректный адрес e-mail",
		"field.url":      "Некорректный URL",
		"field.oneof":    "Недопустимое значение",
		"field.min":      "Значение слишком мало",
		"field.max":      "Значение слишком велико",
		"field.invalid":  "Некорректное значение",

		"order.state.basket":    "Статус корзины",
		"order.state.new":       "Новый",
		"order.state.confirmed": "Подтверждён",
		"order.state.assembled": "Собран",
		"order.state.sent":      "Отправлен",
		"order.state.delivered": "Доставлен",
		"order.state.canceled":  "Отменён",

		"email.register_confirm.subject": "Подтверждение регистрации: %s",
		"email.register_confirm.body":    "Ваш токен подтверждения e-mail:\n\n%s",
		"email.password_reset.subject":   "Сброс пароля: %s",
		"email.password_reset.body":      "Токен для сброса пароля (действителен %d мин.):\n\n%s",
		"email.order_status.subject":     "Заказ №%d: %s",
		"email.order_status.body":        "Статус заказа №%d изменён: %s.\nСумма заказа: %s",
	},
	LocaleEN: {
		"error.bad_request":            "Required arguments are missing",
		"error.validation_failed":      "Invalid request data",
		"error.unauthorized":           "Log in required",
		"error.token_invalid":          "Invalid token",
		"error.user_inactive":          "Account is not activated",
		"error.forbidden":              "Access denied",
		"error.forbidden_user_type":    "Only for shops",
		"error.not_found":              "Object not found",
		"error.integrity_conflict":     "Data integrity violation",
		"error.email_exists":           "A user with this e-mail already exists",
		"error.email_invalid":          "Invalid e-mail address",
		"error.invalid_credentials":    "Authentication failed",
		"error.confirm_token_invalid":  "Token or e-mail is incorrect",
		"error.reset_token_invalid":    "Password reset token is invalid or expired",
		"error.contact_not_found":      "Contact not found",
		"error.shop_not_found":         "Shop not found",
		"error.order_not_found":        "Order not found",
		"error.product_info_not_found": "Product not found or unavailable",
		"error.basket_empty":           "Basket is empty",
		"error.quantity_invalid":       "Quantity must be a positive integer",
		"error.items_invalid":          "Invalid request format",
		"error.boolean_invalid":        "Invalid boolean value",
		"error.catalog_url_invalid":    "Invalid catalog URL",
		"error.catalog_fetch_failed":   "Failed to fetch catalog",
		"error.catalog_malformed":      "Malformed catalog",
		"error.too_many_requests":      "Too many requests, retry in %d s",
		"error.rate_limit_unavailable": "Rate limiter is unavailable",
		"error.internal":               "Internal server error",

		"error.password_min_length":      "Password must be at least %d characters long",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a digit",
		"error.password_require_special": "Password must contain a special character",

		"field.required": "This field is required",
		"field.email":    "Invalid e-mail address",
		"field.url":      "Invalid URL",
		"field.oneof":    "Unsupported value",
		"field.min":      "Value is too small",
		"field.max":      "Value is too large",
		"field.invalid":  "Invalid value",

		"order.state.basket":    "Basket",
		"order.state.new":       "New",
		"order.state.confirmed": "Confirmed",
		"order.state.assembled": "Assembled",
		"order.state.sent":      "Sent",
		"order.state.delivered": "Delivered",
		"order.state.canceled":  "Canceled",

		"email.register_confirm.subject": "Confirm registration: %s",
		"email.register_confirm.body":    "Your e-mail confirmation token:\n\n%s",
		"email.password_reset.subject":   "Password reset: %s",
		"email.password_reset.body":      "Password reset token (valid for %d min):\n\n%s",
		"email.order_status.subject":     "Order #%d: %s",
		"email.order_status.body":        "Order #%d status changed: %s.\nOrder total: %s",
	},
}
