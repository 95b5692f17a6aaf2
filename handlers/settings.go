package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/services"
)

func HandleSettingsGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, services.LoadSettings(app))
	}
}

// HandleSettingsSave replaces the settings record whole. Zeroed numeric
// fields fall back to the defaults on the next load.
func HandleSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var s services.Settings
		if err := e.BindBody(&s); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		if err := services.SaveSettings(app, s); err != nil {
			log.Printf("settings_save: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save settings")
		}
		return e.JSON(http.StatusOK, services.LoadSettings(app))
	}
}
