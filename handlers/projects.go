package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		names, err := services.ListProjects(app)
		if err != nil {
			log.Printf("project_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list projects")
		}
		if names == nil {
			names = []string{}
		}
		return e.JSON(http.StatusOK, names)
	}
}
