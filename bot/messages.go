package bot

// User-facing texts. The bot serves a Russian-speaking audience, so all
// replies are in Russian; log output stays English.
const (
	btnAboutEvent   = "О мероприятии"
	btnRegister     = "Регистрация"
	btnEventInfo    = "Информация о мероприятии"
	btnEventProgram = "Программа мероприятия"

	btnApprove = "Одобрить"
	btnReject  = "Отклонить"

	msgWelcome = "Добро пожаловать на День Культуры Азербайджана! Выберите действие:"
	msgAbout   = "День Культуры Азербайджана: познакомьтесь с богатой культурой и традициями Азербайджана. " +
		"Дата: 29 мая 2025 года, место: Центр конференций."

	msgAlreadyRegistered = "Вы уже зарегистрированы или ожидаете одобрения."
	msgAskOrganization   = "Введите название вашей организации:"
	msgAskName           = "Теперь введите ваше ФИО:"
	msgAskPhone          = "Введите ваш номер телефона (в формате +71234567890):"
	msgBadPhone          = "Пожалуйста, введите корректный номер телефона в формате +71234567890:"
	msgRegistered        = "Спасибо за регистрацию! Ожидайте подтверждения от администрации."
	msgRegCancelled      = "Регистрация отменена."
	msgNothingToCancel   = "Нет активного действия для отмены."

	msgNewApplication = "Новая заявка на регистрацию:\nИмя: %s\nОрганизация: %s\nТелефон: %s\nID: %s"
	msgAlreadyHandled = "Эта заявка уже обработана."
	msgApplicationOK  = "Заявка одобрена."
	msgApplicationNo  = "Заявка отклонена."
	msgYouApproved    = "Ваша регистрация одобрена! Теперь у вас есть доступ к дополнительной информации."
	msgYouRejected    = "К сожалению, ваша заявка на регистрацию отклонена."

	msgAskGuestOrganization = "Введите название организации гостя:"
	msgAskGuestName         = "Теперь введите ФИО гостя:"
	msgAskGuestPhone        = "Введите номер телефона гостя (в формате +71234567890):"
	msgGuestAdded           = "Гость '%s' из организации '%s' с номером телефона %s успешно добавлен."
	msgGuestAddCancelled    = "Добавление гостя отменено."

	msgRosterEmpty      = "Список зарегистрированных гостей пуст."
	msgRosterNoApproved = "Нет одобренных гостей."
	msgRosterHeader     = "Список зарегистрированных гостей:\n\n%s"
	msgRosterLine       = "%s (%s) - ID: %s - Телефон: %s"

	msgRemoveUsage   = "Использование: /remove_guest <ID>"
	msgGuestNotFound = "Гость с ID %s не найден."
	msgYouRemoved    = "Ваш статус участника был отменен администратором. Если это ошибка, свяжитесь с организатором."
	msgGuestRemoved  = "Гость '%s' из организации '%s' успешно удален."

	msgBroadcastUsage   = "Используйте: /broadcast <сообщение>"
	msgBroadcastOK      = "Сообщение успешно отправлено всем пользователям."
	msgBroadcastPartial = "Сообщение отправлено, но не удалось доставить следующим пользователям: %s."

	msgNoPermission = "У вас нет прав для выполнения этой команды."
	msgBusy         = "Сначала завершите или отмените текущее действие (/cancel)."
	msgInternal     = "Что-то пошло не так. Попробуйте позже."
)
