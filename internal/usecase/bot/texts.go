package bot

// Reply menu commands.
const (
	cmdMonth = "Выбор месяца"
	cmdTags  = "Выбор тэгов"
	cmdReset = "Сброс фильтров"
	cmdFind  = "Найти ссылки"
)

const (
	textGreeting    = "Привет! Я бот, который помогает искать материалы в базе данных Института мировой военной экономики и стратегии."
	textChooseMonth = "Выберите месяц:"
	textChooseTags  = "Выберите тэги:"
	textBack        = "назад ↩️"
	textSearching   = "Поиск..."
	textFoundFmt    = "Найдено статей: %d"
	textResetDone   = "Настройки тэгов и даты удалены"
	textNoMonths    = "Не удалось получить список по месяцам."
	textNoTags      = "Не удалось получить список тэгов."
	textMenuExpired = "Меню устарело, откройте его заново."
	checkMark       = "✅"
)

// commands maps reply-menu texts and slash commands to an action name.
var commands = map[string]string{
	"/start":      "start",
	"/month":      "month",
	cmdMonth:      "month",
	"/tags":       "tags",
	cmdTags:       "tags",
	"/reset":      "reset",
	cmdReset:      "reset",
	"/find_links": "find_links",
	cmdFind:       "find_links",
}

func replyMenu() [][]string {
	return [][]string{
		{cmdMonth, cmdTags},
		{cmdReset},
		{cmdFind},
	}
}
