package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

const (
	defaultQuizQuestions = 5
	maxQuizQuestions     = 20
	maxTopicLength       = 200
)

const quizSystemPrompt = `You write multiple choice practice questions for university students preparing for job interviews.
Respond with JSON only, no prose and no markdown.`

var quizSchema = mustSchema(`{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["prompt", "options", "answer_index"],
        "properties": {
          "prompt": {"type": "string", "minLength": 1},
          "options": {
            "type": "array",
            "minItems": 2,
            "maxItems": 6,
            "items": {"type": "string", "minLength": 1}
          },
          "answer_index": {"type": "integer", "minimum": 0},
          "explanation": {"type": "string"}
        }
      }
    }
  }
}`)

type GenerateQuizInput struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

type generatedQuestion struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}

// QuestionView hides the answer until the quiz has been attempted
type QuestionView struct {
	ID          string   `json:"id"`
	Position    int      `json:"position"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex *int     `json:"answer_index,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

type QuizView struct {
	ID         string               `json:"id"`
	Topic      string               `json:"topic"`
	Difficulty string               `json:"difficulty"`
	CreatedAt  time.Time            `json:"created_at"`
	Questions  []QuestionView       `json:"questions"`
	Attempts   []models.QuizAttempt `json:"attempts"`
}

type QuestionResult struct {
	QuestionID  string `json:"question_id"`
	Selected    int    `json:"selected"`
	AnswerIndex int    `json:"answer_index"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

type QuizResult struct {
	Attempt models.QuizAttempt `json:"attempt"`
	Results []QuestionResult   `json:"results"`
}

type QuizService struct {
	repo *repository.GORMRepository
	gen  TextGenerator
}

func NewQuizService(repo *repository.GORMRepository, gen TextGenerator) *QuizService {
	return &QuizService{repo: repo, gen: gen}
}

func (in *GenerateQuizInput) validate() error {
	in.Topic = strings.TrimSpace(in.Topic)
	if in.Topic == "" || len(in.Topic) > maxTopicLength {
		return invalid(fmt.Sprintf("topic must be 1 to %d characters", maxTopicLength))
	}
	if in.Difficulty == "" {
		in.Difficulty = models.DifficultyMedium
	}
	if !slices.Contains([]string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}, in.Difficulty) {
		return invalid("difficulty must be easy, medium or hard")
	}
	if in.Count == 0 {
		in.Count = defaultQuizQuestions
	}
	if in.Count < 1 || in.Count > maxQuizQuestions {
		return invalid(fmt.Sprintf("count must be between 1 and %d", maxQuizQuestions))
	}
	return nil
}

func buildQuizPrompt(in GenerateQuizInput) string {
	return fmt.Sprintf(`Write %d %s multiple choice questions about %q.

Return an object of this shape:
{"questions": [{"prompt": "...", "options": ["...", "..."], "answer_index": 0, "explanation": "..."}]}

Rules:
- 2 to 6 options per question, exactly one correct
- answer_index is the zero based index of the correct option
- explanation is one or two sentences`, in.Count, in.Difficulty, in.Topic)
}

// Generate asks the model for questions and stores the resulting quiz
func (s *QuizService) Generate(ctx context.Context, user *models.User, in GenerateQuizInput) (*QuizView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var payload struct {
		Questions []generatedQuestion `json:"questions"`
	}
	if _, err := generateJSON(ctx, s.gen, quizSystemPrompt, buildQuizPrompt(in), quizSchema, &payload); err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		UserID:     user.ID,
		Topic:      in.Topic,
		Difficulty: in.Difficulty,
	}
	for _, q := range payload.Questions {
		if len(quiz.Questions) == in.Count {
			break
		}
		if q.AnswerIndex >= len(q.Options) {
			slog.Warn("Dropping generated question with out of range answer", "user_id", user.ID, "answer_index", q.AnswerIndex, "options", len(q.Options))
			continue
		}
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Position:    len(quiz.Questions),
			Prompt:      strings.TrimSpace(q.Prompt),
			Options:     q.Options,
			AnswerIndex: q.AnswerIndex,
			Explanation: strings.TrimSpace(q.Explanation),
		})
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: no usable questions", ErrAIOutput)
	}
	if len(quiz.Questions) < in.Count {
		slog.Warn("Storing quiz with fewer questions than requested", "user_id", user.ID, "requested", in.Count, "stored", len(quiz.Questions))
	}

	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to store quiz: %w", err)
	}
	return newQuizView(quiz), nil
}

func (s *QuizService) ownedQuiz(ctx context.Context, userID, id string) (*models.Quiz, error) {
	quiz, err := s.repo.GetQuiz(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil || quiz.UserID != userID {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizService) Get(ctx context.Context, userID, id string) (*QuizView, error) {
	quiz, err := s.ownedQuiz(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return newQuizView(quiz), nil
}

func (s *QuizService) List(ctx context.Context, userID string) ([]models.Quiz, error) {
	quizzes, err := s.repo.ListQuizzes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

// Submit scores one answer per question, in question order
func (s *QuizService) Submit(ctx context.Context, userID, id string, answers []int) (*QuizResult, error) {
	quiz, err := s.ownedQuiz(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(quiz.Questions) {
		return nil, invalid(fmt.Sprintf("expected %d answers, got %d", len(quiz.Questions), len(answers)))
	}
	for i, answer := range answers {
		if answer < 0 || answer >= len(quiz.Questions[i].Options) {
			return nil, invalid(fmt.Sprintf("answer %d is out of range", i))
		}
	}

	score, results := scoreQuiz(quiz.Questions, answers)
	attempt := models.QuizAttempt{
		QuizID:  quiz.ID,
		UserID:  userID,
		Answers: answers,
		Score:   score,
		Total:   len(quiz.Questions),
	}
	if err := s.repo.CreateQuizAttempt(ctx, &attempt); err != nil {
		return nil, fmt.Errorf("failed to store attempt: %w", err)
	}

	return &QuizResult{Attempt: attempt, Results: results}, nil
}

func scoreQuiz(questions []models.QuizQuestion, answers []int) (int, []QuestionResult) {
	score := 0
	results := make([]QuestionResult, len(questions))
	for i, q := range questions {
		correct := answers[i] == q.AnswerIndex
		if correct {
			score++
		}
		results[i] = QuestionResult{
			QuestionID:  q.ID,
			Selected:    answers[i],
			AnswerIndex: q.AnswerIndex,
			Correct:     correct,
			Explanation: q.Explanation,
		}
	}
	return score, results
}

func newQuizView(quiz *models.Quiz) *QuizView {
	reveal := len(quiz.Attempts) > 0
	view := &QuizView{
		ID:         quiz.ID,
		Topic:      quiz.Topic,
		Difficulty: quiz.Difficulty,
		CreatedAt:  quiz.CreatedAt,
		Questions:  make([]QuestionView, 0, len(quiz.Questions)),
		Attempts:   quiz.Attempts,
	}
	if view.Attempts == nil {
		view.Attempts = []models.QuizAttempt{}
	}
	for _, q := range quiz.Questions {
		qv := QuestionView{
			ID:       q.ID,
			Position: q.Position,
			Prompt:   q.Prompt,
			Options:  q.Options,
		}
		if reveal {
			answer := q.AnswerIndex
			qv.AnswerIndex = &answer
			qv.Explanation = q.Explanation
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}
