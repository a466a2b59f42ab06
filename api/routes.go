package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Register wires the page, JSON and event routes on e and installs the page
// renderer and JSON serializer.
func Register(e *echo.Echo, d Deps) {
	e.Renderer = renderer{tmpl: pages}
	e.JSONSerializer = sonicSerializer{}

	e.GET("/", showBoard(d.Board))
	e.POST("/tasks", addTask(d.Board))
	e.POST("/tasks/:id/delete", removeTask(d.Board))

	e.GET("/admin", showAdmin(d.Admin))
	e.POST("/admin/people", addPerson(d.Admin))
	e.POST("/admin/people/:id/delete", removePerson(d.Admin))
	e.POST("/admin/rooms", addRoom(d.Admin))
	e.POST("/admin/rooms/:id/delete", removeRoom(d.Admin))
	e.POST("/admin/rooms/:id/suggestions", addSuggestion(d.Admin))
	e.POST("/admin/suggestions/:id", renameSuggestion(d.Admin))
	e.POST("/admin/suggestions/:id/delete", removeSuggestion(d.Admin))

	e.GET("/planning", showPlanning(d.Planning, d.Events != nil))

	e.GET("/api/people", getPeople(d.Admin))
	e.GET("/api/rooms", getRooms(d.Admin))
	e.GET("/api/rooms/:id/suggestions", getRoomSuggestions(d.Admin))
	e.GET("/api/tasks", getTasks(d.Board))
	e.GET("/api/plan", getPlan(d.Planning))

	if d.Events != nil {
		e.GET("/events", streamEvents(d.Events, d.Stop))
	}
	e.GET("/healthz", healthz)
}

func healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
