package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/collections"
	"github.com/akiyamanx/CULOchanKAIKEIpro/handlers"
	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

func main() {
	// .env is optional; the environment may carry the keys directly
	_ = godotenv.Load()

	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	// Receipt OCR needs an OpenAI key; everything else works without it.
	var extractor services.ReceiptExtractor
	if ex, err := services.NewOpenAIReceiptExtractor(); err != nil {
		log.Printf("Warning: receipt extraction disabled: %v", err)
	} else {
		extractor = ex
	}

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Documents (estimates and invoices share every route) ──
		se.Router.POST("/api/documents/{kind}", handlers.HandleDocumentCreate(app))
		se.Router.GET("/api/documents/{kind}", handlers.HandleDocumentList(app))
		se.Router.GET("/api/documents/{kind}/{id}", handlers.HandleDocumentGet(app))
		se.Router.PATCH("/api/documents/{kind}/{id}", handlers.HandleDocumentUpdate(app))
		se.Router.DELETE("/api/documents/{kind}/{id}", handlers.HandleDocumentDelete(app))

		// ── Document lines ─────────────────────────────────────────
		se.Router.POST("/api/documents/{kind}/{id}/materials", handlers.HandleMaterialLineAdd(app))
		se.Router.PATCH("/api/documents/{kind}/{id}/materials/{lineId}", handlers.HandleMaterialLineUpdate(app))
		se.Router.DELETE("/api/documents/{kind}/{id}/materials/{lineId}", handlers.HandleMaterialLineRemove(app))
		se.Router.POST("/api/documents/{kind}/{id}/works", handlers.HandleWorkLineAdd(app))
		se.Router.PATCH("/api/documents/{kind}/{id}/works/{lineId}", handlers.HandleWorkLineUpdate(app))
		se.Router.DELETE("/api/documents/{kind}/{id}/works/{lineId}", handlers.HandleWorkLineRemove(app))
		se.Router.POST("/api/documents/{kind}/{id}/profit-rate", handlers.HandleBulkProfitRate(app))
		se.Router.POST("/api/documents/{kind}/{id}/work-mode", handlers.HandleWorkModeChange(app))

		// ── Completion and export ──────────────────────────────────
		se.Router.POST("/api/documents/{kind}/{id}/complete", handlers.HandleDocumentComplete(app))
		se.Router.GET("/api/documents/{kind}/{id}/export/pdf", handlers.HandleDocumentExportPDF(app))
		se.Router.GET("/api/documents/{kind}/{id}/export/excel", handlers.HandleDocumentExportExcel(app))

		// ── Receipts ───────────────────────────────────────────────
		se.Router.POST("/api/receipts/extract", handlers.HandleReceiptExtract(app, extractor))
		se.Router.GET("/api/receipts/categories", handlers.HandleReceiptCategories(app))
		se.Router.POST("/api/receipts", handlers.HandleReceiptSave(app))

		// ── Receipt history (recall before the bare {id} routes) ──
		se.Router.GET("/api/receipts/history", handlers.HandleReceiptHistoryList(app))
		se.Router.GET("/api/receipts/history/{id}/recall", handlers.HandleReceiptHistoryRecall(app))
		se.Router.GET("/api/receipts/history/{id}", handlers.HandleReceiptHistoryGet(app))
		se.Router.DELETE("/api/receipts/history/{id}", handlers.HandleReceiptHistoryDelete(app))

		// ── Reconciliation ─────────────────────────────────────────
		se.Router.GET("/api/reconcile/{kind}/targets", handlers.HandleReconcileTargets(app))
		se.Router.POST("/api/reconcile/{kind}/{id}", handlers.HandleReconcileMerge(app))
		se.Router.POST("/api/reconcile/{kind}", handlers.HandleReconcileCreate(app))

		// ── Product master and projects ────────────────────────────
		se.Router.GET("/api/products", handlers.HandleProductList(app))
		se.Router.POST("/api/products", handlers.HandleProductRegister(app))
		se.Router.GET("/api/projects", handlers.HandleProjectList(app))

		// ── Settings ───────────────────────────────────────────────
		se.Router.GET("/api/settings", handlers.HandleSettingsGet(app))
		se.Router.PUT("/api/settings", handlers.HandleSettingsSave(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
