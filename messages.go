package erasite

// Visitor-facing texts. Logs and internal errors stay in English.
const (
	msgRequiredFields     = "Все поля обязательны для заполнения"
	msgInvalidFields      = "Проверьте правильность заполнения полей"
	msgInvalidCredentials = "Неверное имя пользователя или пароль"
	msgTooManyAttempts    = "Слишком много попыток входа. Попробуйте позже."
	msgTooManyRequests    = "Слишком много запросов. Попробуйте позже."
	msgForbidden          = "Доступ запрещен"
	msgServerError        = "Ошибка сервера"
	msgBadRequest         = "Некорректный запрос"
	msgPageNotFound       = "Страница не найдена"
	msgEraNotFound        = "Эпоха не найдена"
	msgCommentNotFound    = "Комментарий не найден"
	msgFeedbackNotFound   = "Сообщение не найдено"
	msgOnlyImages         = "Только изображения!"
	msgImageTooLarge      = "Файл слишком большой (максимум 10 МБ)"
	msgFeedbackThanks     = "Спасибо за ваше сообщение! Мы свяжемся с вами в ближайшее время."
)

// page titles
const (
	titleEras      = "Все эпохи"
	titleFeedback  = "Обратная связь"
	titleLogin     = "Вход в админ-панель"
	titleDashboard = "Панель управления"
	titleError     = "Ошибка"
)
