package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// exportCSV writes the whole current dataset as CSV, one row per record.
func (a *App) exportCSV(c *gin.Context) {
	ds, err := a.store.Current()
	if err != nil {
		writeError(c, http.StatusNotFound, "No dataset loaded yet; upload a chat archive first")
		return
	}

	data, err := ds.MarshalCSV()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to build CSV export")
		return
	}

	filename := fmt.Sprintf(
		"sleepfeed_export_%s.csv",
		time.Now().UTC().Format("20060102_150405"),
	)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
