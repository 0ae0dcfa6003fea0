package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
)

// MemoryStore keeps every collection in process memory. It backs unit
// tests and local development; the sqlite store is the durable twin.
type MemoryStore struct {
	mu           sync.RWMutex
	grades       map[string]*models.Grade
	teachers     map[string]*models.Teacher
	surveys      map[string]*models.Survey
	questions    map[string]*models.Question
	alternatives map[string]*models.Alternative
	gradeLinks   map[string][]*models.GradeTeacherLink
	surveyLinks  map[string][]*models.SurveyQuestionLink
	altLinks     map[string][]*models.QuestionAlternativeLink
	responses    []*models.Response
	usersByEmail map[string]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		grades:       map[string]*models.Grade{},
		teachers:     map[string]*models.Teacher{},
		surveys:      map[string]*models.Survey{},
		questions:    map[string]*models.Question{},
		alternatives: map[string]*models.Alternative{},
		gradeLinks:   map[string][]*models.GradeTeacherLink{},
		surveyLinks:  map[string][]*models.SurveyQuestionLink{},
		altLinks:     map[string][]*models.QuestionAlternativeLink{},
		responses:    []*models.Response{},
		usersByEmail: map[string]*models.User{},
	}
}

var _ Store = (*MemoryStore)(nil)

// Grades

func (s *MemoryStore) AddGrade(g *models.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.grades[g.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateGrade(g *models.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grades[g.ID]; !ok {
		return ErrNotFound
	}
	cp := *g
	s.grades[g.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteGrade(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grades[id]; !ok {
		return ErrNotFound
	}
	delete(s.grades, id)
	delete(s.gradeLinks, id)
	return nil
}

func (s *MemoryStore) GetGrade(id string) (*models.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.grades[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListGrades() ([]*models.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Grade, 0, len(s.grades))
	for _, g := range s.grades {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Teachers

func (s *MemoryStore) AddTeacher(t *models.Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.teachers[t.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateTeacher(t *models.Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	s.teachers[t.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteTeacher(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[id]; !ok {
		return ErrNotFound
	}
	delete(s.teachers, id)
	return nil
}

func (s *MemoryStore) GetTeacher(id string) (*models.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListTeachers() ([]*models.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Surveys

func (s *MemoryStore) AddSurvey(sv *models.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sv
	s.surveys[sv.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateSurvey(sv *models.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.surveys[sv.ID]; !ok {
		return ErrNotFound
	}
	cp := *sv
	s.surveys[sv.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteSurvey(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.surveys[id]; !ok {
		return ErrNotFound
	}
	delete(s.surveys, id)
	delete(s.surveyLinks, id)
	return nil
}

func (s *MemoryStore) GetSurvey(id string) (*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sv, ok := s.surveys[id]; ok {
		cp := *sv
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListSurveys() ([]*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Survey, 0, len(s.surveys))
	for _, sv := range s.surveys {
		cp := *sv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListSurveysByEstado(estado string) ([]*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Survey{}
	for _, sv := range s.surveys {
		if sv.Estado == estado {
			cp := *sv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Questions

func (s *MemoryStore) AddQuestion(q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *q
	s.questions[q.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateQuestion(q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return ErrNotFound
	}
	cp := *q
	s.questions[q.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteQuestion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return ErrNotFound
	}
	delete(s.questions, id)
	delete(s.altLinks, id)
	return nil
}

func (s *MemoryStore) GetQuestion(id string) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.questions[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListQuestions() ([]*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		cp := *q
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Alternatives

func (s *MemoryStore) AddAlternative(a *models.Alternative) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.alternatives[a.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateAlternative(a *models.Alternative) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alternatives[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	s.alternatives[a.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteAlternative(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alternatives[id]; !ok {
		return ErrNotFound
	}
	delete(s.alternatives, id)
	return nil
}

func (s *MemoryStore) GetAlternative(id string) (*models.Alternative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.alternatives[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListAlternatives() ([]*models.Alternative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Alternative, 0, len(s.alternatives))
	for _, a := range s.alternatives {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Links

func (s *MemoryStore) ListGradeTeacherLinks(gradeID string) ([]*models.GradeTeacherLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.GradeTeacherLink(nil), s.gradeLinks[gradeID]...), nil
}

func (s *MemoryStore) ApplyGradeTeacherDiff(gradeID string, add []*models.GradeTeacherLink, removeTeacherIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range removeTeacherIDs {
		drop[id] = true
	}
	kept := make([]*models.GradeTeacherLink, 0, len(s.gradeLinks[gradeID])+len(add))
	for _, l := range s.gradeLinks[gradeID] {
		if !drop[l.TeacherID] {
			kept = append(kept, l)
		}
	}
	for _, l := range add {
		cp := *l
		kept = append(kept, &cp)
	}
	s.gradeLinks[gradeID] = kept
	return nil
}

func (s *MemoryStore) ListSurveyQuestionLinks(surveyID string) ([]*models.SurveyQuestionLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.SurveyQuestionLink(nil), s.surveyLinks[surveyID]...), nil
}

func (s *MemoryStore) ApplySurveyQuestionDiff(surveyID string, add []*models.SurveyQuestionLink, removeQuestionIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range removeQuestionIDs {
		drop[id] = true
	}
	kept := make([]*models.SurveyQuestionLink, 0, len(s.surveyLinks[surveyID])+len(add))
	for _, l := range s.surveyLinks[surveyID] {
		if !drop[l.QuestionID] {
			kept = append(kept, l)
		}
	}
	for _, l := range add {
		cp := *l
		kept = append(kept, &cp)
	}
	s.surveyLinks[surveyID] = kept
	return nil
}

func (s *MemoryStore) ListQuestionAlternativeLinks(questionID string) ([]*models.QuestionAlternativeLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.QuestionAlternativeLink(nil), s.altLinks[questionID]...), nil
}

func (s *MemoryStore) ApplyQuestionAlternativeDiff(questionID string, add []*models.QuestionAlternativeLink, removeAlternativeIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range removeAlternativeIDs {
		drop[id] = true
	}
	kept := make([]*models.QuestionAlternativeLink, 0, len(s.altLinks[questionID])+len(add))
	for _, l := range s.altLinks[questionID] {
		if !drop[l.AlternativeID] {
			kept = append(kept, l)
		}
	}
	for _, l := range add {
		cp := *l
		kept = append(kept, &cp)
	}
	s.altLinks[questionID] = kept
	return nil
}

// Responses

func (s *MemoryStore) AddResponses(rs []*models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		cp := *r
		s.responses = append(s.responses, &cp)
	}
	return nil
}

func (s *MemoryStore) ListResponses(f models.ResponseFilter) ([]*models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Response{}
	for _, r := range s.responses {
		if f.Matches(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Users

func (s *MemoryStore) AddUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.usersByEmail[strings.ToLower(u.Email)] = &cp
	return nil
}

func (s *MemoryStore) FindUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.usersByEmail[strings.ToLower(email)]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) CountUsers() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.usersByEmail), nil
}
