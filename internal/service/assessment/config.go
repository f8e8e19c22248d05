package assessment

// Config содержит настройки оценивания и генерации рекомендаций.
// Все пороги вынесены в конфигурацию: правила рекомендаций читают их
// отсюда, а не из констант в коде.
type Config struct {
	// EasyAccuracyMin — минимальная точность на лёгких вопросах (в процентах).
	// Ниже порога срабатывает high-приоритетная рекомендация по основам.
	EasyAccuracyMin float64

	// MediumAccuracyMin — порог точности на средних вопросах
	MediumAccuracyMin float64

	// HardAccuracyMin — порог точности на сложных вопросах
	HardAccuracyMin float64

	// OverallStrongMin — общий процент, начиная с которого результат
	// считается сильным ("поддерживайте уровень")
	OverallStrongMin float64

	// RushedSecondsPerQuestion — эвристика спешки: меньше этого числа секунд
	// на вопрос в среднем считается торопливым прохождением.
	// Применяется только к aptitude-тестам.
	RushedSecondsPerQuestion int

	// MaxRecommendations — максимальная длина списка рекомендаций
	MaxRecommendations int
}

// DefaultConfig возвращает настройки по умолчанию
func DefaultConfig() *Config {
	return &Config{
		EasyAccuracyMin:          70,
		MediumAccuracyMin:        60,
		HardAccuracyMin:          50,
		OverallStrongMin:         70,
		RushedSecondsPerQuestion: 30,
		MaxRecommendations:       4,
	}
}
