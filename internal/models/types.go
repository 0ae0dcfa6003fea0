package models

import "time"

// Estado values shared by grades, teachers, questions and alternatives.
const (
	EstadoActivo   = "activo"
	EstadoInactivo = "inactivo"
)

// Survey states. At most one survey should be "activa" at a time; the
// store does not enforce this, SurveyService.Activate does.
const (
	EncuestaActiva   = "activa"
	EncuestaInactiva = "inactiva"
)

// Grade is a school cohort (e.g. "Primero A"). Nivel plus Nombre define
// the listing order everywhere grades appear.
type Grade struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Nivel     string    `json:"nivel"`
	Estado    string    `json:"estado"`
	CreatedAt time.Time `json:"createdAt"`
}

// Teacher is rated by respondents. Teachers join grades through
// GradeTeacherLink rows.
type Teacher struct {
	ID           string    `json:"id"`
	Nombre       string    `json:"nombre"`
	Especialidad string    `json:"especialidad,omitempty"`
	Estado       string    `json:"estado"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Survey struct {
	ID          string    `json:"id"`
	Titulo      string    `json:"titulo"`
	Descripcion string    `json:"descripcion,omitempty"`
	Estado      string    `json:"estado"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Question struct {
	ID        string    `json:"id"`
	Texto     string    `json:"texto_pregunta"`
	Tipo      string    `json:"tipo,omitempty"`
	Estado    string    `json:"estado"`
	CreatedAt time.Time `json:"createdAt"`
}

// Alternative is a selectable answer option, reusable across questions.
type Alternative struct {
	ID        string    `json:"id"`
	Texto     string    `json:"texto"`
	Estado    string    `json:"estado"`
	CreatedAt time.Time `json:"createdAt"`
}

// GradeTeacherLink associates one teacher with one grade. The camelCase
// keys match the legacy grados_docentes documents.
type GradeTeacherLink struct {
	ID        string    `json:"id"`
	GradeID   string    `json:"gradoId"`
	TeacherID string    `json:"docenteId"`
	CreatedAt time.Time `json:"fechaCreacion"`
}

type SurveyQuestionLink struct {
	ID         string    `json:"id"`
	SurveyID   string    `json:"encuesta_id"`
	QuestionID string    `json:"pregunta_id"`
	Orden      int       `json:"orden"`
	CreatedAt  time.Time `json:"fecha_creacion"`
}

// QuestionAlternativeLink ties an alternative to a question. Texto is an
// optional denormalized copy of the alternative text; when empty, readers
// fall back to the Alternative entity and finally to the raw id.
type QuestionAlternativeLink struct {
	ID            string    `json:"id"`
	QuestionID    string    `json:"pregunta_id"`
	AlternativeID string    `json:"alternativa_id"`
	Texto         string    `json:"texto_alternativa,omitempty"`
	Orden         int       `json:"orden"`
	CreatedAt     time.Time `json:"fecha_creacion"`
}

// Response is the atomic fact: one anonymous respondent, for one grade,
// chose one alternative for one teacher on one question. Responses are
// append-only and carry no respondent identity.
type Response struct {
	ID            string    `json:"id"`
	SurveyID      string    `json:"encuesta_id"`
	GradeID       string    `json:"grado_id"`
	QuestionID    string    `json:"pregunta_id"`
	TeacherID     string    `json:"docente_id"`
	AlternativeID string    `json:"alternativa_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// ResponseFilter narrows ListResponses. Zero-value fields are ignored;
// set fields combine with AND, matching the equality-only queries the
// document store supports.
type ResponseFilter struct {
	SurveyID      string
	GradeID       string
	QuestionID    string
	TeacherID     string
	AlternativeID string
}

// Matches reports whether r satisfies every set field of f.
func (f ResponseFilter) Matches(r *Response) bool {
	if f.SurveyID != "" && r.SurveyID != f.SurveyID {
		return false
	}
	if f.GradeID != "" && r.GradeID != f.GradeID {
		return false
	}
	if f.QuestionID != "" && r.QuestionID != f.QuestionID {
		return false
	}
	if f.TeacherID != "" && r.TeacherID != f.TeacherID {
		return false
	}
	if f.AlternativeID != "" && r.AlternativeID != f.AlternativeID {
		return false
	}
	return true
}

// User is an administrator account.
type User struct {
	ID        string
	Email     string
	PassHash  []byte
	Role      string
	CreatedAt time.Time
}
