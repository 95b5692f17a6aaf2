package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

// Receipt uploads larger than this are rejected before extraction.
const maxReceiptImageBytes = 10 << 20

// HandleReceiptExtract accepts a multipart receipt image, runs it through
// the extractor and returns the classified pending items.
func HandleReceiptExtract(app *pocketbase.PocketBase, extractor services.ReceiptExtractor) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if extractor == nil {
			return e.String(http.StatusServiceUnavailable, "Receipt extraction is not configured")
		}

		file, header, err := e.Request.FormFile("image")
		if err != nil {
			return e.String(http.StatusBadRequest, "Missing image upload")
		}
		defer file.Close()

		image, err := io.ReadAll(io.LimitReader(file, maxReceiptImageBytes+1))
		if err != nil {
			log.Printf("receipt_extract: could not read upload: %v", err)
			return e.String(http.StatusBadRequest, "Could not read image upload")
		}
		if len(image) > maxReceiptImageBytes {
			return e.String(http.StatusRequestEntityTooLarge, "Image too large")
		}

		result, err := extractor.ExtractReceipt(e.Request.Context(), image, header.Header.Get("Content-Type"))
		if err != nil {
			log.Printf("receipt_extract: extraction failed: %v", err)
			return e.String(http.StatusBadGateway, "Receipt extraction failed")
		}

		items, err := services.ApplyExtraction(app, result)
		if err != nil {
			return e.String(http.StatusUnprocessableEntity, err.Error())
		}

		return e.JSON(http.StatusOK, map[string]any{
			"storeName": result.StoreName,
			"date":      result.Date,
			"items":     items,
		})
	}
}

// HandleReceiptSave persists the classified items as material and expense
// records and archives the receipt in history.
func HandleReceiptSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			StoreName    string                 `json:"storeName"`
			CustomerName string                 `json:"customerName"`
			Date         string                 `json:"date"`
			Items        []services.ReceiptItem `json:"items"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		result, err := services.SaveReceipt(app, body.StoreName, body.CustomerName, body.Date, body.Items)
		if err != nil {
			return e.String(http.StatusUnprocessableEntity, err.Error())
		}

		log.Printf("receipt_save: %s saved %d materials, %d expenses",
			body.StoreName, result.MaterialCount, result.ExpenseCount)
		return e.JSON(http.StatusCreated, result)
	}
}
