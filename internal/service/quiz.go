package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/progression"
)

// QuizOptions configures attempt length and scoring.
type QuizOptions struct {
	MaxQuestions        int
	MasteryMaxQuestions int
	Rules               progression.ScoringRules
}

// ActiveAttempt is an in-progress quiz of one user. It lives only in
// memory; abandoning it discards every answer.
type ActiveAttempt struct {
	mu sync.Mutex

	UserID     int64
	Subject    entities.Subject
	ChapterIDs []int64
	Session    *progression.Session
	Current    int // index of the question on screen

	pending *entities.Attempt // finished but not yet saved
}

// Pending reports whether the attempt is finished but its save failed.
func (a *ActiveAttempt) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Unsaved returns the finished attempt whose save failed, with its XP award.
func (a *ActiveAttempt) Unsaved() (*entities.Attempt, int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending == nil {
		return nil, 0, false
	}
	res, err := a.Session.Result()
	if err != nil {
		return nil, 0, false
	}
	return a.pending, res.XPAwarded, true
}

// QuestionView is a consistent snapshot of one question of an attempt.
type QuestionView struct {
	Index     int
	Total     int
	Remaining int // questions not checked yet
	Streak    int
	Subject   entities.Subject
	Mastery   bool
	Question  entities.Question
	Outcome   progression.QuestionOutcome
}

// View returns a snapshot of question i.
func (a *ActiveAttempt) View(i int) (QuestionView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view(i)
}

// CurrentView returns a snapshot of the question on screen.
func (a *ActiveAttempt) CurrentView() (QuestionView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view(a.Current)
}

func (a *ActiveAttempt) view(i int) (QuestionView, error) {
	q, err := a.Session.Question(i)
	if err != nil {
		return QuestionView{}, err
	}
	o, err := a.Session.Outcome(i)
	if err != nil {
		return QuestionView{}, err
	}
	streak, _ := a.Session.Streak()

	return QuestionView{
		Index:     i,
		Total:     a.Session.Len(),
		Remaining: a.Session.Unchecked(),
		Streak:    streak,
		Subject:   a.Subject,
		Mastery:   a.Session.Mastery(),
		Question:  q,
		Outcome:   o,
	}, nil
}

// FinishResult is returned once an attempt is scored.
type FinishResult struct {
	Result   progression.Result
	Attempt  *entities.Attempt
	Recorded bool                    // false when there is no identity to record against
	Rank     *progression.RankStatus // rank after the award, nil if not recorded
	RankUp   bool                    // the award moved the user into a higher tier
}

type QuizService struct {
	subjects  SubjectCatalog
	questions QuestionSource
	recorder  AttemptRecorder
	active    ActiveAttemptStorage
	resolver  *progression.Resolver
	opts      QuizOptions
	logger    *zap.Logger

	now   func() time.Time
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewQuizService(
	subjects SubjectCatalog,
	questions QuestionSource,
	recorder AttemptRecorder,
	active ActiveAttemptStorage,
	resolver *progression.Resolver,
	opts QuizOptions,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		subjects:  subjects,
		questions: questions,
		recorder:  recorder,
		active:    active,
		resolver:  resolver,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartAttempt seeds a new attempt for userID. An empty chapter list in
// filter starts a mastery exam over the whole subject. Any attempt the user
// still had open is discarded.
func (s *QuizService) StartAttempt(ctx context.Context, userID int64, filter entities.QuestionFilter) (*ActiveAttempt, error) {
	subject, err := s.subjects.GetByID(ctx, filter.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}

	mastery := filter.IsMastery()
	filter.Limit = s.opts.MaxQuestions
	if mastery {
		filter.Limit = s.opts.MasteryMaxQuestions
	}

	questions, err := s.questions.FetchQuestions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	s.rngMu.Lock()
	questions = shuffleQuestions(s.rng, questions)
	s.rngMu.Unlock()

	session, err := progression.NewSession(questions, mastery, s.opts.Rules, s.now())
	if err != nil {
		return nil, err
	}

	if prev, ok := s.active.Get(userID); ok && prev.Pending() {
		s.logger.Warn("discarding unsaved attempt", zap.Int64("user_id", userID))
	}

	attempt := &ActiveAttempt{
		UserID:     userID,
		Subject:    *subject,
		ChapterIDs: filter.ChapterIDs,
		Session:    session,
	}
	s.active.Store(userID, attempt)

	s.logger.Debug("attempt started",
		zap.Int64("user_id", userID),
		zap.Int64("subject_id", subject.ID),
		zap.Bool("mastery", mastery),
		zap.Int("questions", session.Len()),
	)

	return attempt, nil
}

// Active returns the user's in-progress attempt.
func (s *QuizService) Active(userID int64) (*ActiveAttempt, error) {
	a, ok := s.active.Get(userID)
	if !ok {
		return nil, ErrNoActiveAttempt
	}
	return a, nil
}

// ToggleOption flips one option of a question and returns the updated
// question.
func (s *QuizService) ToggleOption(userID int64, question, option int) (QuestionView, error) {
	a, err := s.Active(userID)
	if err != nil {
		return QuestionView{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.Session.Toggle(question, option); err != nil {
		return QuestionView{}, err
	}
	a.Current = question
	return a.view(question)
}

// SelectOptions replaces the selection of a question.
func (s *QuizService) SelectOptions(userID int64, question int, options []int) error {
	a, err := s.Active(userID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.Session.Select(question, options)
}

// CheckAnswer locks a question and reports whether it was answered
// correctly.
func (s *QuizService) CheckAnswer(userID int64, question int) (progression.CheckResult, error) {
	a, err := s.Active(userID)
	if err != nil {
		return progression.CheckResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	res, err := a.Session.Check(question)
	if err != nil {
		return progression.CheckResult{}, err
	}
	a.Current = question

	return res, nil
}

// Advance moves the attempt to the next unchecked question. It reports
// false when every question has been checked.
func (s *QuizService) Advance(userID int64) (QuestionView, bool, error) {
	a, err := s.Active(userID)
	if err != nil {
		return QuestionView{}, false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	next, ok := a.Session.NextUnchecked()
	if !ok {
		return QuestionView{}, false, nil
	}
	a.Current = next

	v, err := a.view(next)
	return v, err == nil, err
}

// Finish scores the attempt and saves it together with the XP award.
// On a store failure it returns the result and a *PersistenceError and
// keeps the attempt so Retry can save it without re-scoring.
func (s *QuizService) Finish(ctx context.Context, userID int64) (*FinishResult, error) {
	a, err := s.Active(userID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending != nil {
		return s.record(ctx, a)
	}

	res, err := a.Session.Finish()
	if err != nil {
		return nil, err
	}

	finishedAt := s.now()
	a.pending = entities.NewAttempt(
		userID,
		a.Subject.ID,
		res.Score,
		res.Total,
		finishedAt.Sub(a.Session.StartedAt()),
		res.Mastery,
		finishedAt,
	)

	return s.record(ctx, a)
}

// Retry saves an attempt whose previous save failed.
func (s *QuizService) Retry(ctx context.Context, userID int64) (*FinishResult, error) {
	a, err := s.Active(userID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending == nil {
		return nil, ErrNothingToRetry
	}
	return s.record(ctx, a)
}

// Abandon discards the user's in-progress attempt without saving anything.
func (s *QuizService) Abandon(userID int64) error {
	if _, ok := s.active.Get(userID); !ok {
		return ErrNoActiveAttempt
	}
	s.active.Delete(userID)
	return nil
}

// record must be called with a.mu held and a.pending set.
func (s *QuizService) record(ctx context.Context, a *ActiveAttempt) (*FinishResult, error) {
	res, err := a.Session.Result()
	if err != nil {
		return nil, err
	}

	out := &FinishResult{
		Result:  res,
		Attempt: a.pending,
	}

	// Without an identity there is nowhere to record the result.
	if a.UserID == 0 {
		s.active.Delete(a.UserID)
		return out, nil
	}

	total, err := s.recorder.Record(ctx, a.pending, res.XPAwarded)
	if err != nil {
		s.logger.Error("failed to record attempt",
			zap.Int64("user_id", a.UserID),
			zap.String("attempt_id", a.pending.ID.String()),
			zap.Int("xp", res.XPAwarded),
			zap.Error(err),
		)
		return out, &PersistenceError{Op: "record attempt", Err: err}
	}

	out.Recorded = true
	s.active.Delete(a.UserID)

	status, err := s.resolver.Resolve(entities.UserProgression{UserID: a.UserID, TotalXP: total})
	if err != nil {
		// The attempt is saved; only the rank display is unavailable.
		s.logger.Error("failed to resolve rank", zap.Int64("user_id", a.UserID), zap.Error(err))
		return out, nil
	}
	out.Rank = &status

	// Record returns the total including this award, also on a resubmit.
	before, err := s.resolver.CurrentTier(total - res.XPAwarded)
	if err == nil && before.MinXP < status.Current.MinXP {
		out.RankUp = true
	}

	s.logger.Info("attempt recorded",
		zap.Int64("user_id", a.UserID),
		zap.String("attempt_id", a.pending.ID.String()),
		zap.Int("score", res.Score),
		zap.Int("total", res.Total),
		zap.Int("xp", res.XPAwarded),
		zap.Int("total_xp", total),
	)

	return out, nil
}

// IsRecoverable reports whether err leaves the attempt usable: the caller
// can pick another filter, answer the remaining questions, or retry.
func IsRecoverable(err error) bool {
	var persistErr *PersistenceError
	return errors.Is(err, progression.ErrEmptyQuestionSet) ||
		errors.Is(err, progression.ErrIncompleteAttempt) ||
		errors.As(err, &persistErr)
}
