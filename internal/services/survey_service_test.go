package services

import (
	"testing"
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
)

func newSurveyService(f *fixture) *SurveyService {
	svc := NewSurveyService(f.store, logger.Nop())
	svc.now = fixedTime
	return svc
}

func TestCreateSurveyStartsInactive(t *testing.T) {
	f := newFixture(t)
	svc := newSurveyService(f)

	sv, err := svc.Create(SurveyInput{Titulo: "Encuesta 2026"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sv.Estado != models.EncuestaInactiva {
		t.Fatalf("estado = %q, want inactiva", sv.Estado)
	}
	if _, err := svc.Create(SurveyInput{}); err == nil {
		t.Fatalf("expected error for missing titulo")
	}
}

func TestActivateDeactivatesOthers(t *testing.T) {
	f := newFixture(t) // s1 is active
	svc := newSurveyService(f)
	sv2, err := svc.Create(SurveyInput{Titulo: "Encuesta 2026"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Activate(sv2.ID); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	active, err := f.store.ListSurveysByEstado(models.EncuestaActiva)
	if err != nil {
		t.Fatalf("ListSurveysByEstado: %v", err)
	}
	if len(active) != 1 || active[0].ID != sv2.ID {
		t.Fatalf("active set = %+v, want only %s", active, sv2.ID)
	}
}

func TestActivateIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := newSurveyService(f)

	sv, err := svc.Activate("s1")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if sv.Estado != models.EncuestaActiva {
		t.Fatalf("estado = %q", sv.Estado)
	}
	active, _ := f.store.ListSurveysByEstado(models.EncuestaActiva)
	if len(active) != 1 {
		t.Fatalf("active surveys = %d, want 1", len(active))
	}
}

func TestActivateUnknownSurvey(t *testing.T) {
	f := newFixture(t)
	svc := newSurveyService(f)

	_, err := svc.Activate("nope")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	// The already-active survey is untouched.
	active, _ := f.store.ListSurveysByEstado(models.EncuestaActiva)
	if len(active) != 1 || active[0].ID != "s1" {
		t.Fatalf("active set changed: %+v", active)
	}
}

func TestDeactivate(t *testing.T) {
	f := newFixture(t)
	svc := newSurveyService(f)

	if _, err := svc.Deactivate("s1"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	got, err := svc.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if got != nil {
		t.Fatalf("active = %+v, want nil", got)
	}
}

func TestActiveNewestWinsOnAnomaly(t *testing.T) {
	f := newFixture(t)
	svc := newSurveyService(f)
	// A second active survey written behind the service's back.
	must(t, f.store.AddSurvey(&models.Survey{
		ID:        "s2",
		Titulo:    "Encuesta 2026",
		Estado:    models.EncuestaActiva,
		CreatedAt: fixedTime().Add(48 * time.Hour),
	}))

	got, err := svc.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if got == nil || got.ID != "s2" {
		t.Fatalf("active = %+v, want newest s2", got)
	}
}

func TestSurveyListNewestFirst(t *testing.T) {
	f := newFixture(t)
	svc := newSurveyService(f)
	must(t, f.store.AddSurvey(&models.Survey{
		ID:        "s2",
		Titulo:    "Encuesta 2026",
		Estado:    models.EncuestaInactiva,
		CreatedAt: fixedTime().Add(time.Hour),
	}))

	surveys, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if surveys[0].ID != "s2" {
		t.Fatalf("order = %s first, want s2", surveys[0].ID)
	}
}
