package api

import (
	"net/http"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/report"
	"github.com/alexanderramin/tutorlog/internal/service"
	"github.com/labstack/echo/v4"
)

type profileAPI struct {
	dir service.ProfileDirectory
}

func registerProfileAPI(g *echo.Group, dir service.ProfileDirectory) {
	if dir == nil {
		return
	}
	api := profileAPI{dir: dir}

	pg := g.Group("/profiles")
	pg.GET("", api.list)
	pg.PUT("", api.save)
}

func (api *profileAPI) list(ctx echo.Context) error {
	profiles, err := api.dir.List(ctx.Request().Context())
	if err != nil {
		return err
	}
	profiles = report.FilterProfiles(profiles, ctx.QueryParam("search"), ctx.QueryParam("class"))
	if ctx.QueryParam("contacts") == "true" {
		profiles = report.WithContacts(profiles)
	}
	out := make([]profileJSON, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileJSON(p))
	}
	return ctx.JSON(http.StatusOK, out)
}

func (api *profileAPI) save(ctx echo.Context) error {
	var req profileJSON
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	saved, err := api.dir.Save(ctx.Request().Context(), &domain.KidProfile{
		ID:        req.ID,
		Name:      req.Name,
		ClassName: req.ClassName,
		School:    req.School,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toProfileJSON(saved))
}
