package paging

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

type Page struct {
	Limit  int
	Offset int
}

// Normalize fills the default limit and clamps to MaxLimit.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
