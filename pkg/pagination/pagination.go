package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxPage keeps the offset well inside int range.
	MaxPage = 10000
)

type Params struct {
	Page  int
	Limit int
}

// Normalize clamps page to [1, MaxPage] and limit to (0, maxLimit]. A non-positive
// limit falls back to defaultLimit.
func Normalize(page, limit, defaultLimit, maxLimit int) Params {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Params{Page: page, Limit: limit}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}
