package worksheet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/internal/rest"
	"github.com/overtrack/overtrack/pkg/tracker"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type PacingDTO struct {
	Annual       decimal.Decimal `json:"annual"`
	HasBudget    bool            `json:"hasBudget"`
	SpentInYear  decimal.Decimal `json:"spentInYear"`
	Remaining    decimal.Decimal `json:"remaining"`
	WeeklyTarget decimal.Decimal `json:"weeklyTarget"`
	WeekActual   decimal.Decimal `json:"weekActual"`
	Variance     decimal.Decimal `json:"variance"`
	OverTarget   bool            `json:"overTarget"`
}

type GroupDTO struct {
	ManagerID      string            `json:"managerId,omitempty"`
	ManagerName    string            `json:"managerName"`
	SupervisorID   string            `json:"supervisorId,omitempty"`
	SupervisorName string            `json:"supervisorName"`
	Detached       bool              `json:"detached"`
	PerDay         []decimal.Decimal `json:"perDay"`
	Hours          decimal.Decimal   `json:"hours"`
	Cost           decimal.Decimal   `json:"cost"`
	Entries        []GroupEntryDTO   `json:"entries"`
}

type GroupEntryDTO struct {
	Position int `json:"position"`
	tracker.EntryDTO
}

type WorksheetDTO struct {
	Week        tracker.WeekDTO   `json:"week"`
	WeeksInYear int               `json:"weeksInYear"`
	Pacing      PacingDTO         `json:"pacing"`
	PerDay      []decimal.Decimal `json:"perDay"`
	TotalHours  decimal.Decimal   `json:"totalHours"`
	Groups      []GroupDTO        `json:"groups"`
	JumpYears   []int             `json:"jumpYears"`
	BudgetYears []int             `json:"budgetYears"`
}

func ToDTO(ws Worksheet) WorksheetDTO {
	groups := make([]GroupDTO, 0, len(ws.Groups))
	for _, g := range ws.Groups {
		gd := GroupDTO{
			ManagerID:      optionalID(g.ManagerID),
			ManagerName:    g.ManagerName,
			SupervisorID:   optionalID(g.SupervisorID),
			SupervisorName: g.SupervisorName,
			Detached:       g.Detached,
			PerDay:         g.PerDay[:],
			Hours:          g.Hours,
			Cost:           g.Cost,
			Entries:        make([]GroupEntryDTO, 0, len(g.Lines)),
		}
		for _, l := range g.Lines {
			gd.Entries = append(gd.Entries, GroupEntryDTO{Position: l.Position, EntryDTO: tracker.EntryToDTO(l.Entry)})
		}
		groups = append(groups, gd)
	}

	return WorksheetDTO{
		Week:        tracker.WeekToDTO(ws.Week, ws.Offset),
		WeeksInYear: ws.WeeksInYear,
		Pacing: PacingDTO{
			Annual:       ws.Pacing.Annual,
			HasBudget:    ws.HasBudget,
			SpentInYear:  ws.Pacing.SpentInYear,
			Remaining:    ws.Pacing.Remaining,
			WeeklyTarget: ws.Pacing.WeeklyTarget.Round(2),
			WeekActual:   ws.Pacing.WeekActual,
			Variance:     ws.Pacing.Variance.Round(2),
			OverTarget:   ws.Pacing.OverTarget(),
		},
		PerDay:      ws.Totals.PerDay[:],
		TotalHours:  ws.Totals.Hours,
		Groups:      groups,
		JumpYears:   ws.JumpYears,
		BudgetYears: ws.BudgetYears,
	}
}

func optionalID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

type Source interface {
	Worksheet() (Worksheet, error)
	WorksheetAt(offset int) (Worksheet, error)
}

type Handler struct {
	source Source
}

func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// Resolve returns the active worksheet, or the one at the "offset" query parameter.
// It writes the error response itself and reports false when there is nothing to render.
func Resolve(w http.ResponseWriter, r *http.Request, source Source) (Worksheet, bool) {
	var ws Worksheet
	var err error
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, convErr := strconv.Atoi(raw)
		if convErr != nil {
			rest.WriteBadRequest(w, "Invalid offset", convErr.Error())
			return Worksheet{}, false
		}
		ws, err = source.WorksheetAt(offset)
	} else {
		ws, err = source.Worksheet()
	}
	if errors.Is(err, ErrNotReady) {
		rest.WriteJSON(w, http.StatusServiceUnavailable, rest.ErrorResponse{Error: err.Error()})
		return Worksheet{}, false
	}
	if err != nil {
		rest.WriteError(w, err)
		return Worksheet{}, false
	}
	return ws, true
}

// GetWorksheet godoc
// @Summary Get the worksheet
// @Description Budget pacing and the supervisor breakdown of the active week, or of the week at the given offset
// @Tags Worksheet
// @Produce json
// @Param offset query int false "Week offset from today"
// @Success 200 {object} WorksheetDTO
// @Failure 503 {object} rest.ErrorResponse
// @Router /api/worksheet [get]
func (handler *Handler) GetWorksheet(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting worksheet")
	ws, ok := Resolve(w, r, handler.source)
	if !ok {
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(ws))
}
