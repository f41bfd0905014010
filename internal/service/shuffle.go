package service

import (
	"math/rand"
	"slices"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

// shuffleQuestions randomizes question order and the option order inside
// every question, remapping the correct indices to the new positions.
func shuffleQuestions(rng *rand.Rand, questions []entities.Question) []entities.Question {
	out := make([]entities.Question, len(questions))
	for i, q := range questions {
		out[i] = shuffleOptions(rng, q)
	}

	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	return out
}

func shuffleOptions(rng *rand.Rand, q entities.Question) entities.Question {
	// perm[newPos] = oldPos
	perm := rng.Perm(len(q.Options))

	options := make([]string, len(q.Options))
	newPos := make([]int, len(q.Options))
	for to, from := range perm {
		options[to] = q.Options[from]
		newPos[from] = to
	}

	correct := make([]int, 0, len(q.CorrectIndices))
	for _, idx := range q.CorrectIndices {
		// Out-of-range indices are authoring errors, kept as is.
		if idx < 0 || idx >= len(newPos) {
			correct = append(correct, idx)
			continue
		}
		correct = append(correct, newPos[idx])
	}
	slices.Sort(correct)

	q.Options = options
	q.CorrectIndices = correct
	return q
}
