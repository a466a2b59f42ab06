package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/antoine01000/bureau-main/domain"
)

func getPeople(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, admin.ListPeople(c.Request().Context()))
	}
}

func getRooms(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, admin.ListRooms(c.Request().Context()))
	}
}

func getRoomSuggestions(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		room, ok := admin.FindRoom(ctx, c.Param("id"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "room not found")
		}
		return c.JSON(http.StatusOK, admin.ListSuggestionsForRoom(ctx, room))
	}
}

func getTasks(board domain.BoardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks := board.ListTasks(c.Request().Context(), c.QueryParam("room"), domain.ParseFilter(c.QueryParam("filter")))
		return c.JSON(http.StatusOK, tasks)
	}
}

func getPlan(planning domain.PlanningService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, planning.LoadPlan(c.Request().Context()))
	}
}
