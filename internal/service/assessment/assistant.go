package assessment

import (
	"fmt"
	"math"
	"strings"

	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// HistoryStats — агрегаты по истории результатов пользователя.
// Средние считаются как среднее процентов отдельных тестов (каждый тест
// весит одинаково независимо от числа вопросов), как и AverageScore у User.
type HistoryStats struct {
	TestCount    int
	AveragePct   int
	AptitudePct  int
	TechnicalPct int
	HasAptitude  bool
	HasTechnical bool
}

// ComputeHistoryStats считает агрегаты по истории результатов
func ComputeHistoryStats(history []entity.TestResult) HistoryStats {
	stats := HistoryStats{TestCount: len(history)}

	var totalSum, aptSum, techSum float64
	var aptCount, techCount int

	for i := range history {
		pct := history[i].Percentage()
		totalSum += pct

		switch history[i].Subject {
		case entity.SubjectAptitude:
			aptSum += pct
			aptCount++
		case entity.SubjectTechnical:
			techSum += pct
			techCount++
		}
	}

	if len(history) > 0 {
		stats.AveragePct = int(math.Round(totalSum / float64(len(history))))
	}
	if aptCount > 0 {
		stats.HasAptitude = true
		stats.AptitudePct = int(math.Round(aptSum / float64(aptCount)))
	}
	if techCount > 0 {
		stats.HasTechnical = true
		stats.TechnicalPct = int(math.Round(techSum / float64(techCount)))
	}

	return stats
}

// WeakerSubject возвращает более слабую категорию для советов по улучшению.
// Если данных по одной из категорий нет, выбирается та, что есть;
// без данных вообще — technical (совет по умолчанию).
func (s HistoryStats) WeakerSubject() entity.Subject {
	switch {
	case s.HasAptitude && s.HasTechnical:
		if s.AptitudePct < s.TechnicalPct {
			return entity.SubjectAptitude
		}
		return entity.SubjectTechnical
	case s.HasAptitude:
		return entity.SubjectAptitude
	default:
		return entity.SubjectTechnical
	}
}

// assistantRule — пара (предикат по ключевым словам, строитель ответа).
// Правила проверяются в порядке объявления, выигрывает первое совпавшее.
type assistantRule struct {
	keywords []string
	build    func(stats HistoryStats, userName string) string
}

// assistantRules — фиксированный упорядоченный список правил ассистента.
// Порядок объявления определяет приоритет при пересечении ключевых слов.
var assistantRules = []assistantRule{
	{
		keywords: []string{"performance", "how am i doing", "my score"},
		build:    buildPerformanceReply,
	},
	{
		keywords: []string{"improve", "better", "tips", "help"},
		build:    buildImprovementReply,
	},
	{
		keywords: []string{"study", "plan", "schedule"},
		build: func(stats HistoryStats, userName string) string {
			return studyPlanReply
		},
	},
	{
		keywords: []string{"aptitude", "math", "logical"},
		build: func(stats HistoryStats, userName string) string {
			return aptitudeTopicsReply
		},
	},
	{
		keywords: []string{"technical", "coding", "programming"},
		build: func(stats HistoryStats, userName string) string {
			return technicalTopicsReply
		},
	},
	{
		keywords: []string{"motivate", "discouraged", "hard"},
		build: func(stats HistoryStats, userName string) string {
			name := userName
			if name == "" {
				name = "friend"
			}
			return fmt.Sprintf(motivationReplyFmt, name)
		},
	},
}

// Respond строит ответ ассистента на свободный текст пользователя.
// Однократный stateless-вызов: вся "память" диалога — это переданная история
// результатов; состояние между вызовами не сохраняется.
func Respond(utterance string, history []entity.TestResult, userName string) string {
	lower := strings.ToLower(utterance)
	stats := ComputeHistoryStats(history)

	for _, rule := range assistantRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.build(stats, userName)
			}
		}
	}

	return fallbackReply
}

// buildPerformanceReply формирует сводку по результатам пользователя
func buildPerformanceReply(stats HistoryStats, _ string) string {
	if stats.TestCount == 0 {
		return "You haven't taken any tests yet! I recommend starting with the Aptitude Assessment to evaluate your logical reasoning and problem-solving skills. Would you like some tips on how to prepare?"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on your %d test(s), your average score is %d%%. ", stats.TestCount, stats.AveragePct)

	if stats.HasAptitude {
		fmt.Fprintf(&sb, "\n\nAptitude: %d%% - ", stats.AptitudePct)
		switch {
		case stats.AptitudePct >= 70:
			sb.WriteString("Excellent! Keep practicing to maintain this level.")
		case stats.AptitudePct >= 50:
			sb.WriteString("Good progress! Focus on time management and practice more complex problems.")
		default:
			sb.WriteString("Needs improvement. I suggest practicing basic arithmetic, percentages, and logical reasoning daily.")
		}
	}

	if stats.HasTechnical {
		fmt.Fprintf(&sb, "\n\nTechnical: %d%% - ", stats.TechnicalPct)
		switch {
		case stats.TechnicalPct >= 70:
			sb.WriteString("Great understanding of technical concepts!")
		case stats.TechnicalPct >= 50:
			sb.WriteString("Solid foundation. Review data structures and algorithms regularly.")
		default:
			sb.WriteString("Focus on fundamentals - variables, loops, functions, and basic algorithms.")
		}
	}

	return sb.String()
}

// buildImprovementReply выбирает советы для более слабой категории
func buildImprovementReply(stats HistoryStats, _ string) string {
	if stats.WeakerSubject() == entity.SubjectAptitude {
		return aptitudeTipsReply
	}
	return technicalTipsReply
}

const aptitudeTipsReply = `Here are personalized tips to improve your aptitude skills:

Time Management
- Practice solving problems under time constraints
- Learn mental math shortcuts

Focus Areas
- Number series and patterns
- Percentage and ratio problems
- Logical reasoning puzzles

Daily Practice
- Solve 5-10 aptitude questions daily
- Review incorrect answers thoroughly
- Time yourself on each question

Would you like me to explain any specific topic?`

const technicalTipsReply = `Here are personalized tips to improve your technical skills:

Core Concepts
- Master data structures (arrays, linked lists, trees)
- Understand algorithm complexity (Big O)
- Practice coding problems regularly

Hands-on Practice
- Build small projects to apply concepts
- Use online coding platforms
- Read and understand existing code

Study Strategy
- Focus on one topic at a time
- Write code by hand before typing
- Explain concepts out loud to reinforce learning

Which specific technical topic would you like help with?`

const studyPlanReply = `Here's a recommended weekly study plan:

Monday & Tuesday: Aptitude
- Number systems, percentages, ratios
- 30 mins theory + 30 mins practice

Wednesday & Thursday: Technical
- Data structures and algorithms
- 45 mins learning + 15 mins coding

Friday: Mock Tests
- Take practice assessments
- Review all incorrect answers

Weekend: Review & Relax
- Revisit weak areas
- Light revision only

Pro tips: study in 25-minute focused sessions, take regular breaks, and track your progress weekly.

Would you like a more detailed plan for any specific day?`

const aptitudeTopicsReply = `For aptitude improvement, focus on these key areas:

Quantitative
- Percentages & Profit/Loss
- Time & Work problems
- Speed & Distance calculations
- Number series patterns

Logical Reasoning
- Syllogisms and deductions
- Blood relations
- Coding-decoding
- Direction sense

Quick tips: learn multiplication tables up to 20, memorize squares up to 30, practice fraction to decimal conversions.

What specific aptitude topic would you like to explore?`

const technicalTopicsReply = `For technical skill improvement:

Programming Fundamentals
- Variables, data types, operators
- Control structures (if/else, loops)
- Functions and scope
- Object-Oriented Programming

Data Structures
- Arrays and strings
- Linked lists
- Stacks and queues
- Trees and graphs

Algorithms
- Searching (linear, binary)
- Sorting (bubble, merge, quick)
- Recursion basics
- Time complexity analysis

Which programming concept would you like me to explain in detail?`

const motivationReplyFmt = `Remember %s, every expert was once a beginner!

You've Got This
- Learning takes time - be patient with yourself
- Small daily progress adds up to big results
- Mistakes are learning opportunities, not failures

Focus on Growth
- Compare yourself only to yesterday's you
- Celebrate small wins along the way
- Take breaks when needed - rest is productive too

Keep pushing forward! What can I help you with today?`

const fallbackReply = `I'm here to help you improve! You can ask me about:

- Your performance analysis
- Study tips and strategies
- Aptitude concepts
- Technical topics
- Creating a study plan
- Specific problem-solving techniques

What would you like to know more about?`
