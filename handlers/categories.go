package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

// HandleReceiptCategories returns the fixed classification taxonomies the
// capture screen renders as dropdowns.
func HandleReceiptCategories(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string][]services.CategoryOption{
			"materials": services.MaterialCategories,
			"expenses":  services.ExpenseCategories,
		})
	}
}
