package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

// loadDraft fetches the document and rejects anything already completed.
func loadDraft(app *pocketbase.PocketBase, e *core.RequestEvent) (*services.Document, int, string) {
	kind, ok := requestKind(e)
	if !ok {
		return nil, http.StatusBadRequest, "Unknown document kind"
	}
	d, err := services.FindDocument(app, kind, e.Request.PathValue("id"))
	if err != nil {
		return nil, http.StatusNotFound, "Document not found"
	}
	if d.Status != services.StatusDraft {
		return nil, http.StatusConflict, "Completed documents cannot be edited"
	}
	return d, 0, ""
}

func saveAndRespond(app *pocketbase.PocketBase, e *core.RequestEvent, d *services.Document) error {
	if _, err := services.SaveDocument(app, d); err != nil {
		log.Printf("document_lines: save failed: %v", err)
		return e.String(http.StatusInternalServerError, "Failed to save document")
	}
	return e.JSON(http.StatusOK, toDocumentResponse(d))
}

func HandleMaterialLineAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, code, msg := loadDraft(app, e)
		if d == nil {
			return e.String(code, msg)
		}
		s := services.LoadSettings(app)
		d.AddMaterialLine(s.DefaultProfitRate)
		return saveAndRespond(app, e, d)
	}
}

// HandleMaterialLineUpdate patches a single material line. Only the fields
// present in the body are applied, each through its setter so the markup
// rules run.
func HandleMaterialLineUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, code, msg := loadDraft(app, e)
		if d == nil {
			return e.String(code, msg)
		}

		var body struct {
			Name         *string `json:"name"`
			Quantity     *int    `json:"quantity"`
			CostPrice    *int    `json:"costPrice"`
			ProfitRate   *int    `json:"profitRate"`
			SellingPrice *int    `json:"sellingPrice"`
			Price        *int    `json:"price"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		lineID := e.Request.PathValue("lineId")
		found := true
		if body.Name != nil {
			found = d.SetMaterialName(lineID, *body.Name) && found
		}
		if body.Quantity != nil {
			found = d.SetMaterialQuantity(lineID, *body.Quantity) && found
		}
		if body.CostPrice != nil {
			found = d.SetMaterialCostPrice(lineID, *body.CostPrice) && found
		}
		if body.ProfitRate != nil {
			found = d.SetMaterialProfitRate(lineID, *body.ProfitRate) && found
		}
		if body.SellingPrice != nil {
			found = d.SetMaterialSellingPrice(lineID, *body.SellingPrice) && found
		}
		if body.Price != nil {
			found = d.SetMaterialPrice(lineID, *body.Price) && found
		}
		if !found {
			return e.String(http.StatusNotFound, "Material line not found")
		}
		return saveAndRespond(app, e, d)
	}
}

func HandleMaterialLineRemove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, code, msg := loadDraft(app, e)
		if d == nil {
			return e.String(code, msg)
		}
		if !d.RemoveMaterialLine(e.Request.PathValue("lineId")) {
			return e.String(http.StatusNotFound, "Material line not found")
		}
		return saveAndRespond(app, e, d)
	}
}

// HandleBulkProfitRate applies one profit rate to every material line.
func HandleBulkProfitRate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, code, msg := loadDraft(app, e)
		if d == nil {
			return e.String(code, msg)
		}

		var body struct {
			Rate int `json:"rate"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		d.ApplyBulkProfitRate(body.Rate)
		return saveAndRespond(app, e, d)
	}
}

func HandleWorkLineAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, code, msg := loadDraft(app, e)
		if d == nil {
			return e.String(code, msg)
		}
		s := services.LoadSettings(app)
		d.AddWorkLine(s.DailyRate)
		return saveAndRespond(app, e, d)
	}
}

func HandleWorkLineUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, code, msg := loadDraft(app, e)
		if d == nil {
			return e.String(code, msg)
		}

		var body struct {
			Name     *string `json:"name"`
			Unit     *string `json:"unit"`
			Value    *int    `json:"value"`
			Quantity *int    `json:"quantity"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		lineID := e.Request.PathValue("lineId")
		found := true
		if body.Name != nil {
			found = d.SetWorkName(lineID, *body.Name) && found
		}
		if body.Unit != nil {
			found = d.SetWorkUnit(lineID, *body.Unit) && found
		}
		if body.Value != nil {
			found = d.SetWorkValue(lineID, *body.Value) && found
		}
		if body.Quantity != nil {
			found = d.SetWorkQuantity(lineID, *body.Quantity) && found
		}
		if !found {
			return e.String(http.StatusNotFound, "Work line not found")
		}
		return saveAndRespond(app, e, d)
	}
}

func HandleWorkLineRemove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, code, msg := loadDraft(app, e)
		if d == nil {
			return e.String(code, msg)
		}
		if !d.RemoveWorkLine(e.Request.PathValue("lineId")) {
			return e.String(http.StatusNotFound, "Work line not found")
		}
		return saveAndRespond(app, e, d)
	}
}

// HandleWorkModeChange switches between lump-sum and daily-rate pricing.
// Switching resets every work line to the new mode's defaults.
func HandleWorkModeChange(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, code, msg := loadDraft(app, e)
		if d == nil {
			return e.String(code, msg)
		}

		var body struct {
			Mode string `json:"mode"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		s := services.LoadSettings(app)
		d.SetWorkMode(services.ParseWorkMode(body.Mode), s.DailyRate)
		return saveAndRespond(app, e, d)
	}
}
