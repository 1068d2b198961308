// Package exports serves dashboard data exports. Currently a CSV dump of
// leads with their current stage and touchpoints, filterable like the list
// endpoint.
package exports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"leadpulse_backend/internal/leads/repository"
	"leadpulse_backend/platform/logger"
)

// exportPageSize is the repository page size used while streaming.
const exportPageSize = 500

var csvHeaders = []string{
	"id", "phone", "email", "display_name", "brand",
	"first_touchpoint", "last_touchpoint", "last_interaction_at",
	"stage", "sub_stage", "stage_override",
	"booking_date", "booking_time", "created_at",
}

// Handler handles export requests.
type Handler struct {
	repo *repository.Repository
	log  *logger.Logger
}

// NewHandler creates a new export handler.
func NewHandler(repo *repository.Repository, log *logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// HandleLeadsCSV handles GET /api/v1/exports/leads.csv?brand=&stage=
func (h *Handler) HandleLeadsCSV(c *gin.Context) {
	params := repository.ListParams{
		Brand: c.Query("brand"),
		Stage: c.Query("stage"),
		Limit: exportPageSize,
	}

	filename := fmt.Sprintf("leads-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(csvHeaders); err != nil {
		return
	}

	for {
		leads, _, err := h.repo.List(c.Request.Context(), params)
		if err != nil {
			// Headers are already out; log and truncate the stream.
			h.log.DatabaseError("exports.list_leads", err)
			return
		}
		if len(leads) == 0 {
			break
		}

		for _, lead := range leads {
			if err := writer.Write(leadRow(lead)); err != nil {
				return
			}
		}

		writer.Flush()
		if len(leads) < exportPageSize {
			break
		}
		params.Offset += exportPageSize
	}

	writer.Flush()
}

func leadRow(lead repository.Lead) []string {
	return []string{
		lead.ID.String(),
		lead.Phone,
		deref(lead.Email),
		lead.DisplayName,
		lead.Brand,
		deref(lead.FirstTouchpoint),
		deref(lead.LastTouchpoint),
		formatTime(lead.LastInteractionAt),
		deref(lead.Stage),
		deref(lead.SubStage),
		strconv.FormatBool(lead.StageOverride),
		deref(lead.BookingDate),
		deref(lead.BookingTime),
		lead.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
