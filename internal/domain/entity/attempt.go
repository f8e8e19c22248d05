package entity

import "time"

// Attempt представляет незавершённую попытку теста.
// Хранится в Redis с TTL до дедлайна (плюс запас на отправку),
// в PostgreSQL попадает только итоговый TestResult.
type Attempt struct {
	ID        string         `json:"id"` // UUID
	UserID    uint           `json:"user_id"`
	TestCode  string         `json:"test_code"`
	Subject   Subject        `json:"subject"`
	Selection map[string]int `json:"selection"` // код вопроса -> индекс выбранного варианта
	StartedAt time.Time      `json:"started_at"`
	Deadline  time.Time      `json:"deadline"`
}

// Expired сообщает, истёк ли лимит времени попытки
func (a *Attempt) Expired(now time.Time) bool {
	return now.After(a.Deadline)
}

// ElapsedSeconds возвращает фактическое время попытки в секундах.
// После дедлайна время фиксируется на лимите: попытка, отправленная по
// таймауту, оценивается так же, как отправленная вручную в последний момент.
func (a *Attempt) ElapsedSeconds(now time.Time) int {
	end := now
	if end.After(a.Deadline) {
		end = a.Deadline
	}
	elapsed := int(end.Sub(a.StartedAt).Seconds())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
