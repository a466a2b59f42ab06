package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/antoine01000/bureau-main/domain"
)

type roomSection struct {
	Room        domain.Room
	Suggestions []domain.TaskSuggestion
}

type adminPage struct {
	People []domain.Person
	Rooms  []roomSection
	// EditID is the suggestion rendered as an inline editor.
	EditID string
}

const adminURL = "/admin"

func showAdmin(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		page := adminPage{
			People: admin.ListPeople(ctx),
			EditID: c.QueryParam("edit"),
		}
		rooms := admin.ListRooms(ctx)
		page.Rooms = make([]roomSection, 0, len(rooms))
		for _, r := range rooms {
			page.Rooms = append(page.Rooms, roomSection{Room: r, Suggestions: admin.ListSuggestionsForRoom(ctx, r)})
		}
		return c.Render(http.StatusOK, "admin.html", page)
	}
}

func addPerson(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin.AddPerson(c.Request().Context(), c.FormValue("name"))
		return c.Redirect(http.StatusSeeOther, adminURL)
	}
}

func removePerson(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin.RemovePerson(c.Request().Context(), c.Param("id"))
		return c.Redirect(http.StatusSeeOther, adminURL)
	}
}

func addRoom(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin.AddRoom(c.Request().Context(), c.FormValue("name"))
		return c.Redirect(http.StatusSeeOther, adminURL)
	}
}

func removeRoom(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin.RemoveRoom(c.Request().Context(), c.Param("id"))
		return c.Redirect(http.StatusSeeOther, adminURL)
	}
}

func addSuggestion(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if room, ok := admin.FindRoom(ctx, c.Param("id")); ok {
			admin.AddSuggestion(ctx, room, c.FormValue("name"))
		}
		return c.Redirect(http.StatusSeeOther, adminURL)
	}
}

func renameSuggestion(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin.RenameSuggestion(c.Request().Context(), c.Param("id"), c.FormValue("current"), c.FormValue("name"))
		return c.Redirect(http.StatusSeeOther, adminURL)
	}
}

func removeSuggestion(admin domain.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin.RemoveSuggestion(c.Request().Context(), c.Param("id"))
		return c.Redirect(http.StatusSeeOther, adminURL)
	}
}
