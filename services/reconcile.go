package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
)

// ReconcileCandidates filters a receipt save's materials down to the ones
// carrying a project assignment. An empty result means the reconciliation
// flow is skipped entirely.
func ReconcileCandidates(materials []SavedMaterial) []SavedMaterial {
	var candidates []SavedMaterial
	for _, m := range materials {
		if strings.TrimSpace(m.ProjectName) != "" {
			candidates = append(candidates, m)
		}
	}
	return candidates
}

// DocumentSummary is a reconciliation destination choice.
type DocumentSummary struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	CustomerName string `json:"customerName"`
	Subject      string `json:"subject"`
	Date         string `json:"date"`
	Total        int    `json:"total"`
}

// DraftDocumentsForProject lists the draft documents of a kind as merge
// destinations, stable-sorted so drafts whose subject mentions the project
// come first. Order among equals is preserved (newest first).
func DraftDocumentsForProject(app *pocketbase.PocketBase, kind DocumentKind, projectName string) ([]DocumentSummary, error) {
	records, err := app.FindRecordsByFilter(
		kind.Collection(),
		"status = {:status}",
		"-created",
		0,
		0,
		map[string]any{"status": StatusDraft},
	)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	summaries := make([]DocumentSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, DocumentSummary{
			ID:           r.Id,
			Number:       r.GetString("number"),
			CustomerName: r.GetString("customer_name"),
			Subject:      r.GetString("subject"),
			Date:         r.GetString("date"),
			Total:        r.GetInt("total"),
		})
	}

	project := strings.TrimSpace(projectName)
	if project != "" {
		sort.SliceStable(summaries, func(i, j int) bool {
			return strings.Contains(summaries[i].Subject, project) &&
				!strings.Contains(summaries[j].Subject, project)
		})
	}
	return summaries, nil
}

// materialLineFromSaved converts a saved material into a document line.
// Estimate lines treat the receipt price as cost and apply the default
// markup; invoice lines carry the price flat.
func materialLineFromSaved(m SavedMaterial, kind DocumentKind, s Settings) MaterialLine {
	qty := m.Quantity
	if qty < 1 {
		qty = 1
	}
	line := MaterialLine{
		ID:          uuid.NewString(),
		Name:        m.Name,
		Quantity:    qty,
		FromReceipt: true,
	}
	if kind == DocumentKindEstimate {
		line.CostPrice = nonNegative(m.Price)
		line.ProfitRate = s.DefaultProfitRate
		line.SellingPrice = SellingFromCost(line.CostPrice, line.ProfitRate)
	} else {
		line.Price = nonNegative(m.Price)
	}
	return line
}

// ReconcileResult reports where reconciled materials ended up.
type ReconcileResult struct {
	DocumentID     string `json:"documentId"`
	Number         string `json:"number"`
	Created        bool   `json:"created"`
	MaterialsAdded int    `json:"materialsAdded"`
}

// MergeIntoDraft appends converted materials to an existing draft,
// recomputes its totals and replaces the stored record. A missing target
// is an error and nothing is mutated.
func MergeIntoDraft(app *pocketbase.PocketBase, kind DocumentKind, documentID string, materials []SavedMaterial, s Settings) (*ReconcileResult, error) {
	if len(materials) == 0 {
		return nil, fmt.Errorf("no materials to reconcile")
	}

	d, err := FindDocument(app, kind, documentID)
	if err != nil {
		return nil, err
	}
	if d.Status != StatusDraft {
		return nil, fmt.Errorf("document %s is not a draft", documentID)
	}

	for _, m := range materials {
		d.Materials = append(d.Materials, materialLineFromSaved(m, kind, s))
	}

	if _, err := SaveDocument(app, d); err != nil {
		return nil, err
	}
	return &ReconcileResult{
		DocumentID:     d.ID,
		Number:         d.Number,
		MaterialsAdded: len(materials),
	}, nil
}

// CreateDocumentFromMaterials starts a new draft for the project, seeded
// with the converted materials and no work lines.
func CreateDocumentFromMaterials(app *pocketbase.PocketBase, kind DocumentKind, projectName string, materials []SavedMaterial, s Settings, now time.Time) (*ReconcileResult, error) {
	if len(materials) == 0 {
		return nil, fmt.Errorf("no materials to reconcile")
	}

	d := NewDocument(kind, s, now)
	d.Subject = strings.TrimSpace(projectName)
	d.Materials = nil
	d.Works = nil
	for _, m := range materials {
		d.Materials = append(d.Materials, materialLineFromSaved(m, kind, s))
	}

	if _, err := SaveDocument(app, d); err != nil {
		return nil, err
	}
	return &ReconcileResult{
		DocumentID:     d.ID,
		Number:         d.Number,
		Created:        true,
		MaterialsAdded: len(materials),
	}, nil
}
