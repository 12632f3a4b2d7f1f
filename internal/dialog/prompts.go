package dialog

import (
	"fmt"

	"github.com/ashureev/templog/internal/locations"
	"github.com/ashureev/templog/internal/notify"
)

// User-facing texts. Every recoverable error is a short corrective
// instruction, never internals.
const (
	greetingText = "Привет! Я помогу тебе заполнить журнал температур.\n" +
		"Отправляй сначала температуру холодильников, затем морозилок.\n" +
		"Напоминаю: использовать можно только цифры и точки, никаких запятых.\n\n" +
		"Начинаем?"
	farewellText       = "Увидимся в другой раз! 👋"
	chooseLocationText = "Из какой ты кофейни?"
	changeLocationText = "Выбери свою кофейню:"
	chooseDeviceText   = "Выбери тип устройства:"
	addAnotherText     = "Добавим ещё устройство 🥶"
	askTemperatureText = "Введи температуру устройства (используй только цифры и точки):"
	badTemperatureText = "❗ Пожалуйста, введи температуру числом. Например: 4.3 или -18"
	noDeviceText       = "⚠️ Сначала выбери тип устройства."
	continueText       = "Хочешь добавить ещё устройство?"
	askNameText        = "Введи свои имя и фамилию (через пробел):"
	badNameText        = "❗ Пожалуйста, введи имя и фамилию через пробел."
	noLocationText     = "⚠️ Ошибка: не удалось получить код кофейни. Попробуй начать заново с /start"
	notSavedText       = "⚠️ Не получилось сохранить данные. Отправь имя и фамилию ещё раз, чтобы повторить запись."
	savedText          = "✅ Спасибо! Данные записаны.\nХорошей смены ☕️"
	resumeFallbackText = "Продолжим с того места, где мы остановились."
	mutedText          = "🔕 Уведомления отключены. Чтобы снова получать напоминания — просто нажми /start."
)

func locationBanner(code string) string {
	return fmt.Sprintf("📍 Ты заполняешь журнал для: %s", code)
}

func startChoices() []notify.Choice {
	return []notify.Choice{
		{Label: "✅ Да", Action: notify.ActionStartSession},
		{Label: "❌ Нет", Action: notify.ActionCancelSession},
	}
}

func deviceChoices() []notify.Choice {
	return []notify.Choice{
		{Label: "🧊 Холодильник", Action: notify.ActionFridge},
		{Label: "❄️ Морозилка", Action: notify.ActionFreezer},
	}
}

func continueChoices() []notify.Choice {
	return []notify.Choice{
		{Label: "✅ Да", Action: notify.ActionAddMore},
		{Label: "❌ Нет", Action: notify.ActionFinishDevices},
	}
}

func newEntryChoices() []notify.Choice {
	return []notify.Choice{
		{Label: "🔄 Начать новую запись", Action: notify.ActionNewEntry},
	}
}

func changeLocationChoices() []notify.Choice {
	return []notify.Choice{
		{Label: "🔁 Изменить кофейню", Action: notify.ActionRestart},
	}
}

func locationChoices(page locations.PageView) []notify.Choice {
	choices := make([]notify.Choice, 0, len(page.Items)+2)
	for _, item := range page.Items {
		choices = append(choices, notify.Choice{
			Label:  item.Name,
			Action: fmt.Sprintf("%s%d", notify.ActionSelectPrefix, item.Index),
		})
	}
	if page.HasPrev {
		choices = append(choices, notify.Choice{
			Label:  "⬅️ Назад",
			Action: fmt.Sprintf("%s%d", notify.ActionPagePrefix, page.Number-1),
		})
	}
	if page.HasNext {
		choices = append(choices, notify.Choice{
			Label:  "➡️ Далее",
			Action: fmt.Sprintf("%s%d", notify.ActionPagePrefix, page.Number+1),
		})
	}
	return choices
}
