package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

func HandleReceiptHistoryList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		history, err := services.ListReceiptHistory(app, e.Request.URL.Query().Get("q"))
		if err != nil {
			log.Printf("receipt_history_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list receipt history")
		}
		if history == nil {
			history = []services.ReceiptHistory{}
		}
		return e.JSON(http.StatusOK, history)
	}
}

func HandleReceiptHistoryGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		h, err := services.FindReceiptHistory(app, e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Receipt history not found")
		}
		return e.JSON(http.StatusOK, h)
	}
}

func HandleReceiptHistoryDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := services.DeleteReceiptHistory(app, id); err != nil {
			log.Printf("receipt_history_delete: could not delete %s: %v", id, err)
			return e.String(http.StatusNotFound, "Receipt history not found")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleReceiptHistoryRecall turns an archived receipt back into a fresh
// pending item list, ready for re-editing and re-saving.
func HandleReceiptHistoryRecall(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		h, err := services.FindReceiptHistory(app, e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Receipt history not found")
		}
		return e.JSON(http.StatusOK, map[string]any{
			"storeName":    h.StoreName,
			"customerName": h.CustomerName,
			"date":         h.Date,
			"items":        services.RecallReceiptHistory(h),
		})
	}
}
