package searcher

import "kalah/meta"

// Parameters for minimax

// Score of a decided game, large enough to dominate any static evaluation
const WinScore = 1_000_000.0
const LossScore = -WinScore
const DrawScore = 0.0

const DefaultDepth = meta.DEPTH
