package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

// documentResponse is the JSON shape of a document aggregate.
type documentResponse struct {
	ID           string                  `json:"id"`
	Kind         string                  `json:"kind"`
	Number       string                  `json:"number"`
	Status       string                  `json:"status"`
	CustomerName string                  `json:"customerName"`
	Subject      string                  `json:"subject"`
	Date         string                  `json:"date"`
	ValidUntil   string                  `json:"validUntil,omitempty"`
	DueDate      string                  `json:"dueDate,omitempty"`
	Notes        string                  `json:"notes"`
	WorkMode     string                  `json:"workMode"`
	TaxRate      int                     `json:"taxRate"`
	Materials    []services.MaterialLine `json:"materials"`
	Works        []services.WorkLine     `json:"works"`
	Totals       services.DocumentTotals `json:"totals"`

	// Estimates only: material cost subtotal and the margin on top of it.
	MaterialCost int `json:"materialCost,omitempty"`
	GrossProfit  int `json:"grossProfit,omitempty"`
}

func toDocumentResponse(d *services.Document) documentResponse {
	resp := documentResponse{
		ID:           d.ID,
		Kind:         string(d.Kind),
		Number:       d.Number,
		Status:       d.Status,
		CustomerName: d.CustomerName,
		Subject:      d.Subject,
		Date:         d.Date,
		ValidUntil:   d.ValidUntil,
		DueDate:      d.DueDate,
		Notes:        d.Notes,
		WorkMode:     string(d.WorkMode),
		TaxRate:      d.TaxRate,
		Materials:    d.Materials,
		Works:        d.Works,
		Totals:       d.Totals,
	}
	if d.Kind == services.DocumentKindEstimate {
		resp.MaterialCost, resp.GrossProfit = services.CostBreakdown(d.Materials)
	}
	return resp
}

// requestKind resolves the {kind} path segment to a DocumentKind.
func requestKind(e *core.RequestEvent) (services.DocumentKind, bool) {
	kind, err := services.ParseDocumentKind(e.Request.PathValue("kind"))
	if err != nil {
		return "", false
	}
	return kind, true
}

func HandleDocumentCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		var body struct {
			CustomerName string `json:"customerName"`
			Subject      string `json:"subject"`
		}
		_ = e.BindBody(&body) // an empty body is a blank document

		s := services.LoadSettings(app)
		d := services.NewDocument(kind, s, time.Now())
		d.CustomerName = body.CustomerName
		d.Subject = body.Subject

		if _, err := services.SaveDocument(app, d); err != nil {
			log.Printf("document_create: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to create document")
		}
		return e.JSON(http.StatusCreated, toDocumentResponse(d))
	}
}

func HandleDocumentList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		docs, err := services.ListDocuments(app, kind, e.Request.URL.Query().Get("q"))
		if err != nil {
			log.Printf("document_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list documents")
		}

		out := make([]documentResponse, 0, len(docs))
		for _, d := range docs {
			out = append(out, toDocumentResponse(d))
		}
		return e.JSON(http.StatusOK, out)
	}
}

func HandleDocumentGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		d, err := services.FindDocument(app, kind, e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Document not found")
		}
		return e.JSON(http.StatusOK, toDocumentResponse(d))
	}
}

// HandleDocumentUpdate patches the document header fields. Absent fields
// are left untouched.
func HandleDocumentUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		d, err := services.FindDocument(app, kind, e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Document not found")
		}
		if d.Status != services.StatusDraft {
			return e.String(http.StatusConflict, "Completed documents cannot be edited")
		}

		var body struct {
			CustomerName *string `json:"customerName"`
			Subject      *string `json:"subject"`
			Date         *string `json:"date"`
			ValidUntil   *string `json:"validUntil"`
			DueDate      *string `json:"dueDate"`
			Notes        *string `json:"notes"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		if body.CustomerName != nil {
			d.CustomerName = *body.CustomerName
		}
		if body.Subject != nil {
			d.Subject = *body.Subject
		}
		if body.Date != nil {
			d.Date = *body.Date
		}
		if body.ValidUntil != nil {
			d.ValidUntil = *body.ValidUntil
		}
		if body.DueDate != nil {
			d.DueDate = *body.DueDate
		}
		if body.Notes != nil {
			d.Notes = *body.Notes
		}

		if _, err := services.SaveDocument(app, d); err != nil {
			log.Printf("document_update: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save document")
		}
		return e.JSON(http.StatusOK, toDocumentResponse(d))
	}
}

func HandleDocumentDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		id := e.Request.PathValue("id")
		if err := services.DeleteDocument(app, kind, id); err != nil {
			log.Printf("document_delete: could not delete %s: %v", id, err)
			return e.String(http.StatusNotFound, "Document not found")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
