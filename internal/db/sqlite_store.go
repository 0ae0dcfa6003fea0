package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/store"
)

// SQLiteStore is the durable store.Store implementation. Queries stay
// equality-only on purpose; the service layer owns every derived view,
// so the memory store and this one remain interchangeable.
type SQLiteStore struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(sqlDB *sql.DB) (*SQLiteStore, error) {
	if sqlDB == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := sqlDB.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: sqlDB}, nil
}

// Open opens (creating if needed) the database file, applies pragmas
// and runs migrations.
func Open(path, migrationsDir string) (*SQLiteStore, *sql.DB, error) {
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	s, err := NewSQLiteStore(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	if err := RunMigrations(sqlDB, migrationsDir); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return s, sqlDB, nil
}

func (s *SQLiteStore) exec(query string, args ...any) error {
	_, err := s.db.Exec(query, args...)
	return err
}

// execExisting runs an UPDATE/DELETE and maps zero affected rows to
// store.ErrNotFound.
func (s *SQLiteStore) execExisting(query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Grades

func (s *SQLiteStore) AddGrade(g *models.Grade) error {
	return s.exec(
		`INSERT INTO grados (id, nombre, nivel, estado, created_at) VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Nombre, g.Nivel, g.Estado, g.CreatedAt,
	)
}

func (s *SQLiteStore) UpdateGrade(g *models.Grade) error {
	return s.execExisting(
		`UPDATE grados SET nombre = ?, nivel = ?, estado = ? WHERE id = ?`,
		g.Nombre, g.Nivel, g.Estado, g.ID,
	)
}

func (s *SQLiteStore) DeleteGrade(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`DELETE FROM grados WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	if _, err := tx.Exec(`DELETE FROM grados_docentes WHERE grado_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetGrade(id string) (*models.Grade, error) {
	g := &models.Grade{}
	err := s.db.QueryRow(
		`SELECT id, nombre, nivel, estado, created_at FROM grados WHERE id = ?`, id,
	).Scan(&g.ID, &g.Nombre, &g.Nivel, &g.Estado, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *SQLiteStore) ListGrades() ([]*models.Grade, error) {
	rows, err := s.db.Query(`SELECT id, nombre, nivel, estado, created_at FROM grados ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Grade{}
	for rows.Next() {
		g := &models.Grade{}
		if err := rows.Scan(&g.ID, &g.Nombre, &g.Nivel, &g.Estado, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Teachers

func (s *SQLiteStore) AddTeacher(t *models.Teacher) error {
	return s.exec(
		`INSERT INTO docentes (id, nombre, especialidad, estado, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Nombre, t.Especialidad, t.Estado, t.CreatedAt,
	)
}

func (s *SQLiteStore) UpdateTeacher(t *models.Teacher) error {
	return s.execExisting(
		`UPDATE docentes SET nombre = ?, especialidad = ?, estado = ? WHERE id = ?`,
		t.Nombre, t.Especialidad, t.Estado, t.ID,
	)
}

func (s *SQLiteStore) DeleteTeacher(id string) error {
	return s.execExisting(`DELETE FROM docentes WHERE id = ?`, id)
}

func (s *SQLiteStore) GetTeacher(id string) (*models.Teacher, error) {
	t := &models.Teacher{}
	err := s.db.QueryRow(
		`SELECT id, nombre, especialidad, estado, created_at FROM docentes WHERE id = ?`, id,
	).Scan(&t.ID, &t.Nombre, &t.Especialidad, &t.Estado, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SQLiteStore) ListTeachers() ([]*models.Teacher, error) {
	rows, err := s.db.Query(`SELECT id, nombre, especialidad, estado, created_at FROM docentes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Teacher{}
	for rows.Next() {
		t := &models.Teacher{}
		if err := rows.Scan(&t.ID, &t.Nombre, &t.Especialidad, &t.Estado, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Surveys

func (s *SQLiteStore) AddSurvey(sv *models.Survey) error {
	return s.exec(
		`INSERT INTO encuestas (id, titulo, descripcion, estado, created_at) VALUES (?, ?, ?, ?, ?)`,
		sv.ID, sv.Titulo, sv.Descripcion, sv.Estado, sv.CreatedAt,
	)
}

func (s *SQLiteStore) UpdateSurvey(sv *models.Survey) error {
	return s.execExisting(
		`UPDATE encuestas SET titulo = ?, descripcion = ?, estado = ? WHERE id = ?`,
		sv.Titulo, sv.Descripcion, sv.Estado, sv.ID,
	)
}

func (s *SQLiteStore) DeleteSurvey(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`DELETE FROM encuestas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	if _, err := tx.Exec(`DELETE FROM encuesta_preguntas WHERE encuesta_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetSurvey(id string) (*models.Survey, error) {
	sv := &models.Survey{}
	err := s.db.QueryRow(
		`SELECT id, titulo, descripcion, estado, created_at FROM encuestas WHERE id = ?`, id,
	).Scan(&sv.ID, &sv.Titulo, &sv.Descripcion, &sv.Estado, &sv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sv, nil
}

func (s *SQLiteStore) listSurveys(query string, args ...any) ([]*models.Survey, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Survey{}
	for rows.Next() {
		sv := &models.Survey{}
		if err := rows.Scan(&sv.ID, &sv.Titulo, &sv.Descripcion, &sv.Estado, &sv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListSurveys() ([]*models.Survey, error) {
	return s.listSurveys(`SELECT id, titulo, descripcion, estado, created_at FROM encuestas ORDER BY id`)
}

func (s *SQLiteStore) ListSurveysByEstado(estado string) ([]*models.Survey, error) {
	return s.listSurveys(
		`SELECT id, titulo, descripcion, estado, created_at FROM encuestas WHERE estado = ? ORDER BY id`,
		estado,
	)
}

// Questions

func (s *SQLiteStore) AddQuestion(q *models.Question) error {
	return s.exec(
		`INSERT INTO preguntas (id, texto, tipo, estado, created_at) VALUES (?, ?, ?, ?, ?)`,
		q.ID, q.Texto, q.Tipo, q.Estado, q.CreatedAt,
	)
}

func (s *SQLiteStore) UpdateQuestion(q *models.Question) error {
	return s.execExisting(
		`UPDATE preguntas SET texto = ?, tipo = ?, estado = ? WHERE id = ?`,
		q.Texto, q.Tipo, q.Estado, q.ID,
	)
}

func (s *SQLiteStore) DeleteQuestion(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`DELETE FROM preguntas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	if _, err := tx.Exec(`DELETE FROM pregunta_alternativas WHERE pregunta_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetQuestion(id string) (*models.Question, error) {
	q := &models.Question{}
	err := s.db.QueryRow(
		`SELECT id, texto, tipo, estado, created_at FROM preguntas WHERE id = ?`, id,
	).Scan(&q.ID, &q.Texto, &q.Tipo, &q.Estado, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SQLiteStore) ListQuestions() ([]*models.Question, error) {
	rows, err := s.db.Query(`SELECT id, texto, tipo, estado, created_at FROM preguntas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Question{}
	for rows.Next() {
		q := &models.Question{}
		if err := rows.Scan(&q.ID, &q.Texto, &q.Tipo, &q.Estado, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Alternatives

func (s *SQLiteStore) AddAlternative(a *models.Alternative) error {
	return s.exec(
		`INSERT INTO alternativas (id, texto, estado, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Texto, a.Estado, a.CreatedAt,
	)
}

func (s *SQLiteStore) UpdateAlternative(a *models.Alternative) error {
	return s.execExisting(
		`UPDATE alternativas SET texto = ?, estado = ? WHERE id = ?`,
		a.Texto, a.Estado, a.ID,
	)
}

func (s *SQLiteStore) DeleteAlternative(id string) error {
	return s.execExisting(`DELETE FROM alternativas WHERE id = ?`, id)
}

func (s *SQLiteStore) GetAlternative(id string) (*models.Alternative, error) {
	a := &models.Alternative{}
	err := s.db.QueryRow(
		`SELECT id, texto, estado, created_at FROM alternativas WHERE id = ?`, id,
	).Scan(&a.ID, &a.Texto, &a.Estado, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SQLiteStore) ListAlternatives() ([]*models.Alternative, error) {
	rows, err := s.db.Query(`SELECT id, texto, estado, created_at FROM alternativas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Alternative{}
	for rows.Next() {
		a := &models.Alternative{}
		if err := rows.Scan(&a.ID, &a.Texto, &a.Estado, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Links

func (s *SQLiteStore) ListGradeTeacherLinks(gradeID string) ([]*models.GradeTeacherLink, error) {
	rows, err := s.db.Query(
		`SELECT id, grado_id, docente_id, created_at FROM grados_docentes WHERE grado_id = ?`,
		gradeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.GradeTeacherLink{}
	for rows.Next() {
		l := &models.GradeTeacherLink{}
		if err := rows.Scan(&l.ID, &l.GradeID, &l.TeacherID, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ApplyGradeTeacherDiff(gradeID string, add []*models.GradeTeacherLink, removeTeacherIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, teacherID := range removeTeacherIDs {
		if _, err := tx.Exec(
			`DELETE FROM grados_docentes WHERE grado_id = ? AND docente_id = ?`,
			gradeID, teacherID,
		); err != nil {
			return err
		}
	}
	for _, l := range add {
		if _, err := tx.Exec(
			`INSERT INTO grados_docentes (id, grado_id, docente_id, created_at) VALUES (?, ?, ?, ?)`,
			l.ID, gradeID, l.TeacherID, l.CreatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListSurveyQuestionLinks(surveyID string) ([]*models.SurveyQuestionLink, error) {
	rows, err := s.db.Query(
		`SELECT id, encuesta_id, pregunta_id, orden, created_at FROM encuesta_preguntas WHERE encuesta_id = ?`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.SurveyQuestionLink{}
	for rows.Next() {
		l := &models.SurveyQuestionLink{}
		if err := rows.Scan(&l.ID, &l.SurveyID, &l.QuestionID, &l.Orden, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ApplySurveyQuestionDiff(surveyID string, add []*models.SurveyQuestionLink, removeQuestionIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, questionID := range removeQuestionIDs {
		if _, err := tx.Exec(
			`DELETE FROM encuesta_preguntas WHERE encuesta_id = ? AND pregunta_id = ?`,
			surveyID, questionID,
		); err != nil {
			return err
		}
	}
	for _, l := range add {
		if _, err := tx.Exec(
			`INSERT INTO encuesta_preguntas (id, encuesta_id, pregunta_id, orden, created_at) VALUES (?, ?, ?, ?, ?)`,
			l.ID, surveyID, l.QuestionID, l.Orden, l.CreatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListQuestionAlternativeLinks(questionID string) ([]*models.QuestionAlternativeLink, error) {
	rows, err := s.db.Query(
		`SELECT id, pregunta_id, alternativa_id, texto_alternativa, orden, created_at
		 FROM pregunta_alternativas WHERE pregunta_id = ?`,
		questionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.QuestionAlternativeLink{}
	for rows.Next() {
		l := &models.QuestionAlternativeLink{}
		if err := rows.Scan(&l.ID, &l.QuestionID, &l.AlternativeID, &l.Texto, &l.Orden, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ApplyQuestionAlternativeDiff(questionID string, add []*models.QuestionAlternativeLink, removeAlternativeIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, alternativeID := range removeAlternativeIDs {
		if _, err := tx.Exec(
			`DELETE FROM pregunta_alternativas WHERE pregunta_id = ? AND alternativa_id = ?`,
			questionID, alternativeID,
		); err != nil {
			return err
		}
	}
	for _, l := range add {
		if _, err := tx.Exec(
			`INSERT INTO pregunta_alternativas (id, pregunta_id, alternativa_id, texto_alternativa, orden, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, questionID, l.AlternativeID, l.Texto, l.Orden, l.CreatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Responses

func (s *SQLiteStore) AddResponses(rs []*models.Response) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range rs {
		if _, err := tx.Exec(
			`INSERT INTO respuestas (id, encuesta_id, grado_id, pregunta_id, docente_id, alternativa_id, ts)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.SurveyID, r.GradeID, r.QuestionID, r.TeacherID, r.AlternativeID, r.Timestamp,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListResponses(f models.ResponseFilter) ([]*models.Response, error) {
	query := `SELECT id, encuesta_id, grado_id, pregunta_id, docente_id, alternativa_id, ts FROM respuestas`
	where := []string{}
	args := []any{}
	for _, c := range []struct {
		col string
		val string
	}{
		{"encuesta_id", f.SurveyID},
		{"grado_id", f.GradeID},
		{"pregunta_id", f.QuestionID},
		{"docente_id", f.TeacherID},
		{"alternativa_id", f.AlternativeID},
	} {
		if c.val != "" {
			where = append(where, c.col+" = ?")
			args = append(args, c.val)
		}
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Response{}
	for rows.Next() {
		r := &models.Response{}
		if err := rows.Scan(&r.ID, &r.SurveyID, &r.GradeID, &r.QuestionID, &r.TeacherID, &r.AlternativeID, &r.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Users

func (s *SQLiteStore) AddUser(u *models.User) error {
	return s.exec(
		`INSERT INTO usuarios (id, email, pass_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PassHash, u.Role, u.CreatedAt,
	)
}

func (s *SQLiteStore) FindUserByEmail(email string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(
		`SELECT id, email, pass_hash, role, created_at FROM usuarios WHERE email = ? COLLATE NOCASE`, email,
	).Scan(&u.ID, &u.Email, &u.PassHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *SQLiteStore) CountUsers() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM usuarios`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
