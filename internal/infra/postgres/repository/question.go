package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/infra/postgres"
)

// QuestionRepository is the question source used to seed attempts.
type QuestionRepository struct {
	db postgres.DBTX
}

func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// FetchQuestions returns a random sample of questions matching filter.
// An empty chapter list selects the whole subject.
func (r *QuestionRepository) FetchQuestions(ctx context.Context, filter entities.QuestionFilter) ([]entities.Question, error) {
	query := `
		SELECT id, subject_id, chapter_id, text, options, correct_indices
		FROM questions
		WHERE subject_id = $1
		  AND (cardinality($2::int8[]) = 0 OR chapter_id = ANY($2::int8[]))
		ORDER BY random()
		LIMIT NULLIF($3::int, 0)
	`

	chapterIDs := filter.ChapterIDs
	if chapterIDs == nil {
		chapterIDs = []int64{}
	}

	rows, err := r.db.Query(ctx, query, filter.SubjectID, chapterIDs, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer rows.Close()

	questions := make([]entities.Question, 0, max(filter.Limit, 0))
	for rows.Next() {
		var (
			q       entities.Question
			correct []int32
		)
		if err := rows.Scan(&q.ID, &q.SubjectID, &q.ChapterID, &q.Text, &q.Options, &correct); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.CorrectIndices = fromInt4(correct)
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func fromInt4(nums []int32) []int {
	out := make([]int, len(nums))
	for i, v := range nums {
		out[i] = int(v)
	}
	return out
}
