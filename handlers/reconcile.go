package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

// HandleReconcileTargets lists the draft documents a set of receipt
// materials can be merged into, project-matching drafts first.
func HandleReconcileTargets(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		targets, err := services.DraftDocumentsForProject(app, kind, e.Request.URL.Query().Get("project"))
		if err != nil {
			log.Printf("reconcile_targets: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list drafts")
		}
		return e.JSON(http.StatusOK, targets)
	}
}

// HandleReconcileMerge appends the given saved materials to an existing
// draft as receipt-sourced lines.
func HandleReconcileMerge(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		var body struct {
			MaterialIDs []string `json:"materialIds"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		materials, err := services.FindSavedMaterials(app, body.MaterialIDs)
		if err != nil {
			return e.String(http.StatusNotFound, err.Error())
		}

		s := services.LoadSettings(app)
		result, err := services.MergeIntoDraft(app, kind, e.Request.PathValue("id"), materials, s)
		if err != nil {
			return e.String(http.StatusUnprocessableEntity, err.Error())
		}

		log.Printf("reconcile_merge: added %d materials to %s %s", result.MaterialsAdded, kind, result.DocumentID)
		return e.JSON(http.StatusOK, result)
	}
}

// HandleReconcileCreate starts a fresh draft for a project from the given
// saved materials.
func HandleReconcileCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		var body struct {
			ProjectName string   `json:"projectName"`
			MaterialIDs []string `json:"materialIds"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		materials, err := services.FindSavedMaterials(app, body.MaterialIDs)
		if err != nil {
			return e.String(http.StatusNotFound, err.Error())
		}

		s := services.LoadSettings(app)
		result, err := services.CreateDocumentFromMaterials(app, kind, body.ProjectName, materials, s, time.Now())
		if err != nil {
			return e.String(http.StatusUnprocessableEntity, err.Error())
		}

		log.Printf("reconcile_create: new %s %s with %d materials", kind, result.DocumentID, result.MaterialsAdded)
		return e.JSON(http.StatusCreated, result)
	}
}
