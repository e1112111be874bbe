package rank

import "roomhunt-engine/internal/domain"

type Scorer interface {
	Score(room domain.Room) float64
}
