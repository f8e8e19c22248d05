package assessment

import (
	"sort"

	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// Priority — приоритет рекомендации
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// rank возвращает порядок сортировки: high < medium < low
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Recommendation — один элемент обратной связи по результату теста.
// Строится заново при каждом запросе, никогда не сохраняется.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"` // Тег для выбора иконки на клиенте
}

// recommendInput — входные данные для одного прогона правил
type recommendInput struct {
	subject        entity.Subject
	breakdown      Breakdown
	overallPercent float64
	elapsedSeconds int
	totalQuestions int
}

// recommendRule — пара (предикат, строитель). Правила объявлены упорядоченным
// списком и проверяются независимо: может сработать несколько сразу.
type recommendRule struct {
	fires func(cfg *Config, in *recommendInput) bool
	build func(in *recommendInput) Recommendation
}

// recommendRules — фиксированный список правил в порядке объявления.
// Порядок важен: при равном приоритете он определяет итоговый порядок вывода.
var recommendRules = []recommendRule{
	{
		// Слабые основы: низкая точность на лёгких вопросах
		fires: func(cfg *Config, in *recommendInput) bool {
			return in.breakdown.Accuracy(entity.DifficultyEasy) < cfg.EasyAccuracyMin
		},
		build: func(in *recommendInput) Recommendation {
			r := Recommendation{
				Title:    "Strengthen Your Fundamentals",
				Priority: PriorityHigh,
				Category: "fundamentals",
			}
			if in.subject == entity.SubjectAptitude {
				r.Description = "You missed several easy questions. Practice basic arithmetic, percentages and logical reasoning daily before moving to harder topics."
			} else {
				r.Description = "You missed several easy questions. Revisit the basics first: variables, data types, loops and simple functions."
			}
			return r
		},
	},
	{
		// Середина проседает
		fires: func(cfg *Config, in *recommendInput) bool {
			return in.breakdown.Accuracy(entity.DifficultyMedium) < cfg.MediumAccuracyMin
		},
		build: func(in *recommendInput) Recommendation {
			r := Recommendation{
				Priority: PriorityMedium,
				Category: "problem-solving",
			}
			if in.subject == entity.SubjectAptitude {
				r.Title = "Improve Problem Solving"
				r.Description = "Medium difficulty questions need work. Practice multi-step problems: ratios, averages and work-time calculations."
			} else {
				r.Title = "Practice Data Structures"
				r.Description = "Medium difficulty questions need work. Review arrays, stacks, queues and how to pick the right structure for a task."
			}
			return r
		},
	},
	{
		// Сложные вопросы: зона роста
		fires: func(cfg *Config, in *recommendInput) bool {
			return in.breakdown.Accuracy(entity.DifficultyHard) < cfg.HardAccuracyMin
		},
		build: func(in *recommendInput) Recommendation {
			r := Recommendation{
				Priority: PriorityLow,
				Category: "challenge",
			}
			if in.subject == entity.SubjectAptitude {
				r.Title = "Challenge Yourself"
				r.Description = "Hard questions are your growth area. Attempt a few advanced puzzles each week and study the solutions you miss."
			} else {
				r.Title = "Master Algorithms"
				r.Description = "Hard questions are your growth area. Study sorting, searching and complexity analysis, then solve harder coding problems."
			}
			return r
		},
	},
	{
		// Сильный общий результат
		fires: func(cfg *Config, in *recommendInput) bool {
			return in.overallPercent >= cfg.OverallStrongMin
		},
		build: func(in *recommendInput) Recommendation {
			r := Recommendation{
				Priority: PriorityLow,
				Category: "excellence",
			}
			if in.subject == entity.SubjectAptitude {
				r.Title = "Maintain Excellence"
				r.Description = "Great score! Keep a light regular practice schedule so the skills stay sharp."
			} else {
				r.Title = "Keep Building"
				r.Description = "Great score! Move on to more advanced topics and keep applying what you know in projects."
			}
			return r
		},
	},
	{
		// Эвристика спешки: строго меньше порога секунд на вопрос в среднем.
		// Только для aptitude: технические тесты проходят в другом темпе.
		fires: func(cfg *Config, in *recommendInput) bool {
			return in.subject == entity.SubjectAptitude &&
				in.elapsedSeconds < in.totalQuestions*cfg.RushedSecondsPerQuestion
		},
		build: func(in *recommendInput) Recommendation {
			return Recommendation{
				Title:       "Slow Down and Double-Check",
				Description: "You finished quickly. Reread each question and verify the answer before moving on to avoid careless mistakes.",
				Priority:    PriorityMedium,
				Category:    "pacing",
			}
		},
	},
	{
		// Для technical — безусловный совет про практику
		fires: func(cfg *Config, in *recommendInput) bool {
			return in.subject == entity.SubjectTechnical
		},
		build: func(in *recommendInput) Recommendation {
			return Recommendation{
				Title:       "Get Hands-On Practice",
				Description: "Theory sticks when applied. Build small projects and solve coding exercises on a regular schedule.",
				Priority:    PriorityMedium,
				Category:    "practice",
			}
		},
	},
}

// Recommend строит упорядоченный список рекомендаций по результату теста.
// Детерминировано: одинаковый вход всегда даёт одинаковый список.
// Сработавшие правила сортируются стабильно по приоритету (high, medium, low;
// при равенстве — порядок объявления правил) и обрезаются до cfg.MaxRecommendations.
//
// Список может быть пустым: если все точности выше порогов, а общий процент
// ниже OverallStrongMin, ни одно правило не сработает. Это не ошибка.
func Recommend(cfg *Config, subject entity.Subject, breakdown Breakdown, overallPercent float64, elapsedSeconds, totalQuestions int) []Recommendation {
	in := &recommendInput{
		subject:        subject,
		breakdown:      breakdown,
		overallPercent: overallPercent,
		elapsedSeconds: elapsedSeconds,
		totalQuestions: totalQuestions,
	}

	fired := make([]Recommendation, 0, len(recommendRules))
	for _, rule := range recommendRules {
		if rule.fires(cfg, in) {
			fired = append(fired, rule.build(in))
		}
	}

	sort.SliceStable(fired, func(i, j int) bool {
		return fired[i].Priority.rank() < fired[j].Priority.rank()
	})

	if len(fired) > cfg.MaxRecommendations {
		fired = fired[:cfg.MaxRecommendations]
	}

	return fired
}
