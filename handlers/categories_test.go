package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
	"github.com/akiyamanx/CULOchanKAIKEIpro/testhelpers"
)

func TestHandleReceiptCategories(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleReceiptCategories(app)
	req := httptest.NewRequest(http.MethodGet, "/api/receipts/categories", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var body map[string][]services.CategoryOption
	decodeJSON(t, rec, &body)

	if len(body["materials"]) == 0 || body["materials"][0].Value != "pipes" {
		t.Errorf("materials = %+v, want pipes first", body["materials"])
	}
	if len(body["expenses"]) == 0 || body["expenses"][0].Value != "travel" {
		t.Errorf("expenses = %+v, want travel first", body["expenses"])
	}
}
