package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleDocumentComplete validates the draft and stores a freshly numbered
// completed snapshot. The draft itself stays editable.
func HandleDocumentComplete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		d, err := services.FindDocument(app, kind, e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Document not found")
		}

		snapshot, err := services.CompleteDocument(app, d, time.Now())
		if err != nil {
			return e.String(http.StatusUnprocessableEntity, err.Error())
		}

		log.Printf("document_complete: %s %s completed as %s", kind, d.ID, snapshot.Number)
		return e.JSON(http.StatusCreated, toDocumentResponse(snapshot))
	}
}

// HandleDocumentExportPDF generates and downloads the PDF rendition.
func HandleDocumentExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		d, err := services.FindDocument(app, kind, e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Document not found")
		}
		if err := d.ValidateForExport(); err != nil {
			return e.String(http.StatusUnprocessableEntity, err.Error())
		}

		s := services.LoadSettings(app)
		data := services.BuildExportData(d, s)

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("document_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := exportFilename(d, "pdf")
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleDocumentExportExcel generates and downloads the Excel rendition.
func HandleDocumentExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := requestKind(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Unknown document kind")
		}

		d, err := services.FindDocument(app, kind, e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Document not found")
		}
		if err := d.ValidateForExport(); err != nil {
			return e.String(http.StatusUnprocessableEntity, err.Error())
		}

		s := services.LoadSettings(app)
		data := services.BuildExportData(d, s)

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("document_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := exportFilename(d, "xlsx")
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

func exportFilename(d *services.Document, ext string) string {
	base := d.Number
	if base == "" {
		base = fmt.Sprintf("%s_%s", d.Kind.NumberPrefix(), d.Date)
	}
	return fmt.Sprintf("%s_%s.%s", sanitizeFilename(base), sanitizeFilename(d.CustomerName), ext)
}
