package malloc

import "errors"

var (
	// ErrBadLink indicates inconsistent registry or arena list links.
	ErrBadLink = errors.New("malloc: registry links inconsistent")

	// ErrMisaligned indicates a block whose payload size or address is not
	// a multiple of the alignment unit.
	ErrMisaligned = errors.New("malloc: misaligned block")

	// ErrBadChain indicates an arena whose block chain does not exactly
	// cover its reserved region.
	ErrBadChain = errors.New("malloc: arena chain does not cover arena")

	// ErrUncoalesced indicates two physically adjacent free blocks, which
	// the coalescing rules should have merged.
	ErrUncoalesced = errors.New("malloc: adjacent free blocks left unmerged")

	// ErrAccounting indicates disagreement between the incremental free
	// estimate or heap total and the authoritative registry scan.
	ErrAccounting = errors.New("malloc: accounting drift")
)
