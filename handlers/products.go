package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

func HandleProductList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		products, err := services.ListProducts(app, e.Request.URL.Query().Get("q"))
		if err != nil {
			log.Printf("product_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list products")
		}
		if products == nil {
			products = []services.Product{}
		}
		return e.JSON(http.StatusOK, products)
	}
}

// HandleProductRegister adds or merges a product master entry so future
// receipt extractions can canonicalize its name.
func HandleProductRegister(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			OfficialName string   `json:"officialName"`
			Category     string   `json:"category"`
			Aliases      []string `json:"aliases"`
			DefaultPrice int      `json:"defaultPrice"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		p, err := services.AddToProductMaster(app, body.OfficialName, body.Category, body.Aliases, body.DefaultPrice)
		if err != nil {
			return e.String(http.StatusUnprocessableEntity, err.Error())
		}
		return e.JSON(http.StatusCreated, p)
	}
}
