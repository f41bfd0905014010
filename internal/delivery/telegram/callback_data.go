package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionSubjects    = "subjects"
	actionSubject     = "subj"
	actionQuiz        = "qz"
	actionRank        = "rank"
	actionStats       = "stats"
	actionWeak        = "weak"
	actionLeaderboard = "top"
)

// Quiz sub-actions.
const (
	quizStart   = "s"
	quizMastery = "m"
	quizToggle  = "t"
	quizCheck   = "c"
	quizNext    = "n"
	quizFinish  = "f"
	quizRetry   = "r"
	quizQuit    = "x"
)

var errBadCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// intParam returns the i-th parameter as a non-negative int.
func (cd callbackData) intParam(i int) (int, error) {
	if i >= len(cd.Params) {
		return 0, errBadCallback
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil || n < 0 {
		return 0, errBadCallback
	}
	return n, nil
}

// int64Param returns the i-th parameter as a positive id.
func (cd callbackData) int64Param(i int) (int64, error) {
	if i >= len(cd.Params) {
		return 0, errBadCallback
	}
	n, err := strconv.ParseInt(cd.Params[i], 10, 64)
	if err != nil || n <= 0 {
		return 0, errBadCallback
	}
	return n, nil
}

func buildSubjectsCallback() string {
	return actionSubjects
}

// buildSubjectCallback opens the chapter picker of a subject.
func buildSubjectCallback(subjectID int64) string {
	return callbackData{
		Action: actionSubject,
		Params: []string{strconv.FormatInt(subjectID, 10)},
	}.encode()
}

// buildQuizStartCallback starts a chapter quiz.
func buildQuizStartCallback(subjectID, chapterID int64) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{
			quizStart,
			strconv.FormatInt(subjectID, 10),
			strconv.FormatInt(chapterID, 10),
		},
	}.encode()
}

// buildMasteryStartCallback starts a subject-wide mastery exam.
func buildMasteryStartCallback(subjectID int64) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizMastery, strconv.FormatInt(subjectID, 10)},
	}.encode()
}

func buildToggleCallback(question, option int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizToggle, strconv.Itoa(question), strconv.Itoa(option)},
	}.encode()
}

func buildCheckCallback(question int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizCheck, strconv.Itoa(question)},
	}.encode()
}

func buildQuizCallback(subAction string) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{subAction},
	}.encode()
}
