// --- qamaster-server/handlers/diag_handlers.go ---
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qamaster-server/bank"
	"qamaster-server/source"
)

// Diagnostics lists the questions whose answer key failed to resolve,
// with the raw and cleaned key cells. This is a projection of the loaded
// bank, not a second parsing pass.
// GET /api/v1/diagnostics
func Diagnostics(loader *source.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		b := loader.Bank()
		diags := bank.Unresolved(b.Questions)
		c.JSON(http.StatusOK, gin.H{
			"bank_size":  len(b.Questions),
			"unresolved": len(diags),
			"entries":    diags,
		})
	}
}

// DiagnosticsPage renders the same projection as an HTML page, for eyeballing
// data-entry defects in the source sheet.
// GET /diag/unresolved
func DiagnosticsPage(loader *source.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		b := loader.Bank()
		diags := bank.Unresolved(b.Questions)
		c.HTML(http.StatusOK, "diagnostics", gin.H{
			"Title":     "Unresolved Answer Keys",
			"BankSize":  len(b.Questions),
			"FetchedAt": b.FetchedAt,
			"Entries":   diags,
			"UserEmail": c.GetString("user_email"),
		})
	}
}
