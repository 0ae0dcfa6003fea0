package store

import (
	"errors"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
)

// ErrNotFound is returned by Get/Update/Delete operations when the
// referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is the document-store adapter. Queries are equality-only; there
// are no joins and no aggregation pushdown, so every derived view is
// computed by the service layer from plain lists.
//
// Link diffs are applied atomically: either every add and remove in the
// call commits, or none do. This keeps wholesale link replacement free
// of transient zero-link states.
type Store interface {
	AddGrade(g *models.Grade) error
	UpdateGrade(g *models.Grade) error
	// DeleteGrade removes the grade and all of its grade-teacher links
	// in the same batch.
	DeleteGrade(id string) error
	GetGrade(id string) (*models.Grade, error)
	ListGrades() ([]*models.Grade, error)

	AddTeacher(t *models.Teacher) error
	UpdateTeacher(t *models.Teacher) error
	DeleteTeacher(id string) error
	GetTeacher(id string) (*models.Teacher, error)
	ListTeachers() ([]*models.Teacher, error)

	AddSurvey(sv *models.Survey) error
	UpdateSurvey(sv *models.Survey) error
	DeleteSurvey(id string) error
	GetSurvey(id string) (*models.Survey, error)
	ListSurveys() ([]*models.Survey, error)
	ListSurveysByEstado(estado string) ([]*models.Survey, error)

	AddQuestion(q *models.Question) error
	UpdateQuestion(q *models.Question) error
	DeleteQuestion(id string) error
	GetQuestion(id string) (*models.Question, error)
	ListQuestions() ([]*models.Question, error)

	AddAlternative(a *models.Alternative) error
	UpdateAlternative(a *models.Alternative) error
	DeleteAlternative(id string) error
	GetAlternative(id string) (*models.Alternative, error)
	ListAlternatives() ([]*models.Alternative, error)

	ListGradeTeacherLinks(gradeID string) ([]*models.GradeTeacherLink, error)
	ApplyGradeTeacherDiff(gradeID string, add []*models.GradeTeacherLink, removeTeacherIDs []string) error

	ListSurveyQuestionLinks(surveyID string) ([]*models.SurveyQuestionLink, error)
	ApplySurveyQuestionDiff(surveyID string, add []*models.SurveyQuestionLink, removeQuestionIDs []string) error

	ListQuestionAlternativeLinks(questionID string) ([]*models.QuestionAlternativeLink, error)
	ApplyQuestionAlternativeDiff(questionID string, add []*models.QuestionAlternativeLink, removeAlternativeIDs []string) error

	// AddResponses commits the batch atomically; a respondent's answers
	// for one question page either all land or none do.
	AddResponses(rs []*models.Response) error
	ListResponses(f models.ResponseFilter) ([]*models.Response, error)

	AddUser(u *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	CountUsers() (int, error)
}
