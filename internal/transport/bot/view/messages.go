package view

const StartMessage = `👋 <b>ReviewHunter</b>

Команды:
/hunt industry@city — запустить поиск лидов
/status — статус вотчера
/startwatch — запустить вотчер
/stopwatch — остановить вотчер`

const (
	HuntMissingArgument = "Формат: /hunt industry@city, например /hunt dentist@Bochum"
	HuntFailed          = "Поиск не удался: %v"
	HuntNoLeads         = "Ничего не найдено."

	WatchStarted        = "🟢 Вотчер запущен"
	WatchStopped        = "🔴 Вотчер остановлен"
	WatchAlreadyRunning = "Вотчер уже работает"
)
