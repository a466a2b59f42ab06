package api

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/antoine01000/bureau-main/domain"
)

type filterButton struct {
	Value  string
	Label  string
	Href   string
	Active bool
}

type boardPage struct {
	Board    domain.Board
	Statuses []string
	Filters  []filterButton
	Alert    string

	// Selected form values.
	RoomID   string
	Name     string
	Assignee string
	Status   string

	PickRoom     string
	PickPerson   string
	PickStatus   string
	NoTasks      string
	RemovePrompt string
}

func newBoardPage(b domain.Board) boardPage {
	p := boardPage{
		Board:        b,
		Statuses:     domain.Statuses,
		PickRoom:     domain.PickRoom,
		PickPerson:   domain.PickPerson,
		PickStatus:   domain.PickStatus,
		NoTasks:      domain.NoTasks,
		RemovePrompt: domain.RemoveTaskPrompt,
	}
	if b.SelectedRoom != nil {
		p.RoomID = b.SelectedRoom.ID
	}
	p.Filters = filterButtons(p.RoomID, b.Filter)
	return p
}

func filterButtons(roomID string, current domain.Filter) []filterButton {
	buttons := []filterButton{
		{Value: string(domain.FilterActive), Label: "Actives"},
		{Value: string(domain.FilterAll), Label: "Toutes"},
	}
	for _, s := range domain.Statuses {
		buttons = append(buttons, filterButton{Value: s, Label: s})
	}
	for i := range buttons {
		buttons[i].Href = boardURL(roomID, buttons[i].Value)
		buttons[i].Active = domain.Filter(buttons[i].Value) == current
	}
	return buttons
}

// boardURL links to the board with the given selection. Empty values are
// left out.
func boardURL(roomID, filter string) string {
	q := url.Values{}
	if roomID != "" {
		q.Set("room", roomID)
	}
	if filter != "" {
		q.Set("filter", filter)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func showBoard(board domain.BoardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		b := board.Load(ctx, c.QueryParam("room"), domain.ParseFilter(c.QueryParam("filter")))
		page := newBoardPage(b)
		page.Assignee = c.QueryParam("assignee")
		page.Status = c.QueryParam("status")
		return c.Render(http.StatusOK, "board.html", page)
	}
}

func addTask(board domain.BoardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		in := domain.NewTask{
			Name:     c.FormValue("name"),
			Assignee: c.FormValue("assignee"),
			RoomID:   c.FormValue("room"),
			Status:   c.FormValue("status"),
		}
		if _, err := board.AddTask(ctx, in); err != nil {
			if !domain.IsValidationError(err) {
				return err
			}
			page := newBoardPage(board.Load(ctx, in.RoomID, domain.FilterActive))
			page.Alert = domain.MissingFieldsAlert
			page.Name = in.Name
			page.Assignee = in.Assignee
			page.Status = in.Status
			return c.Render(http.StatusUnprocessableEntity, "board.html", page)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
}

func removeTask(board domain.BoardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		board.RemoveTask(c.Request().Context(), c.Param("id"))
		return c.Redirect(http.StatusSeeOther, boardURL(c.FormValue("room"), ""))
	}
}
