package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akiyamanx/CULOchanKAIKEIpro/testhelpers"
)

func TestHandleProjectList(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleProjectList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "[]" && body != "[]\n" {
		t.Errorf("body = %q, want [] when no projects exist", body)
	}

	testhelpers.CreateTestProject(t, app, "田中邸")
	testhelpers.CreateTestProject(t, app, "佐藤ビル")

	rec = httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var names []string
	decodeJSON(t, rec, &names)
	if len(names) != 2 {
		t.Errorf("projects = %v, want 2 names", names)
	}
}
