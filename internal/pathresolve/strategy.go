package pathresolve

import "github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"

// Priority is the declared precedence of a strategy for a given request.
// Strategies are consulted highest-priority-first.
type Priority int

const (
	PriorityLowest Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityHighest
)

func (p Priority) String() string {
	switch p {
	case PriorityHighest:
		return "HIGHEST"
	case PriorityHigh:
		return "HIGH"
	case PriorityNormal:
		return "NORMAL"
	case PriorityLow:
		return "LOW"
	default:
		return "LOWEST"
	}
}

// Strategy resolves one PathRequest into a PathResponse, or declares
// itself not applicable via CanHandle.
type Strategy interface {
	// Name uniquely identifies the strategy; also serves as the tie-break
	// key when two strategies share a priority.
	Name() string

	// CanHandle reports whether this strategy applies to the request's
	// path kind and installation kind.
	CanHandle(req types.PathRequest) bool

	// Priority returns this strategy's precedence for the request.
	Priority(req types.PathRequest) Priority

	// Resolve attempts to produce a path. A non-ok response is not an
	// error: the resolver moves on to the next strategy.
	Resolve(req types.PathRequest) types.PathResponse
}
