package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/antoine01000/bureau-main/domain"
)

type planningPage struct {
	Plan    []domain.RoomPlan
	NoTasks string
	// Live reloads the page on change events.
	Live bool
}

func showPlanning(planning domain.PlanningService, live bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		page := planningPage{
			Plan:    planning.LoadPlan(c.Request().Context()),
			NoTasks: domain.NoTasksInRoom,
			Live:    live,
		}
		return c.Render(http.StatusOK, "planning.html", page)
	}
}
