package detection

import "github.com/jonesrussell/formguard/internal/domain"

// Category is a query-time view over stored submissions. Membership is a
// predicate, not a stored field, so it tracks upstream annotations.
type Category int

const (
	// CategorySuspicious holds submissions with captured input that are
	// not confirmed human-with-click: bots, unknowns, and uncorrelated
	// humans all land here for manual review.
	CategorySuspicious Category = iota
	// CategoryHumanInput holds confirmed human submissions with captured
	// input and a correlated click.
	CategoryHumanInput
	// CategoryHumanBackground holds human submissions without captured
	// input (background requests).
	CategoryHumanBackground
	// CategoryBot holds submissions attributed to automation.
	CategoryBot
)

func (c Category) String() string {
	switch c {
	case CategorySuspicious:
		return "suspicious"
	case CategoryHumanInput:
		return "human_input"
	case CategoryHumanBackground:
		return "human_background"
	case CategoryBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Matches evaluates the category predicate for a single submission. The
// predicates are kept exactly as the upstream system defines them and are
// not reduced to a cleaner partition: an unknown verdict is neither human
// nor bot, so an unknown submission with input is suspicious and nothing
// else.
func Matches(s *domain.Submission, category Category) bool {
	switch category {
	case CategorySuspicious:
		return s.HasInput() && !(s.IsBot.IsHuman() && s.HasClickCorrelation)
	case CategoryHumanInput:
		return s.IsBot.IsHuman() && s.HasClickCorrelation && s.HasInput()
	case CategoryHumanBackground:
		return s.IsBot.IsHuman() && !s.HasInput()
	case CategoryBot:
		return s.IsBot.IsBot()
	default:
		return false
	}
}

// Filter returns the submissions matching the category, preserving input
// order. Callers pass records already sorted newest-first.
func Filter(subs []domain.Submission, category Category) []domain.Submission {
	out := make([]domain.Submission, 0, len(subs))
	for i := range subs {
		if Matches(&subs[i], category) {
			out = append(out, subs[i])
		}
	}
	return out
}

// Paginate applies skip/limit to an already-filtered result set.
// Pagination always happens after category filtering, never before.
func Paginate(subs []domain.Submission, skip, limit int) []domain.Submission {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(subs) || limit <= 0 {
		return []domain.Submission{}
	}

	end := skip + limit
	if end > len(subs) {
		end = len(subs)
	}
	return subs[skip:end]
}
