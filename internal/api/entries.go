package api

import (
	"net/http"
	"strconv"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/report"
	"github.com/alexanderramin/tutorlog/internal/service"
	"github.com/labstack/echo/v4"
)

const defaultPerPage = 20

type entryAPI struct {
	store service.EntryService
}

func registerEntryAPI(g *echo.Group, admin echo.MiddlewareFunc, store service.EntryService) {
	api := entryAPI{store: store}

	eg := g.Group("/entries")
	eg.GET("", api.list)
	eg.POST("", api.submit)
	eg.POST("/refresh", api.refresh)
	eg.PATCH("/:id", api.update, admin)
	eg.DELETE("/:id", api.destroy, admin)
	eg.DELETE("", api.clearBefore, admin)
}

func searchFilters(ctx echo.Context) domain.SearchFilters {
	return domain.SearchFilters{
		StudentName:   ctx.QueryParam("student"),
		ClassName:     ctx.QueryParam("class"),
		VolunteerName: ctx.QueryParam("volunteer"),
	}
}

func intParam(ctx echo.Context, name string, def int) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return n, nil
}

func (api *entryAPI) list(ctx echo.Context) error {
	page, err := intParam(ctx, "page", 1)
	if err != nil {
		return err
	}
	perPage, err := intParam(ctx, "per_page", defaultPerPage)
	if err != nil {
		return err
	}

	filtered := report.FilterEntries(api.store.Entries(), searchFilters(ctx))
	items, pages := report.Paginate(filtered, page, perPage)
	resp := listResponse{
		Entries:    toEntriesJSON(items),
		Page:       page,
		TotalPages: pages,
		Total:      len(filtered),
	}
	if lerr := api.store.Err(); lerr != nil {
		resp.LoadError = lerr.Error()
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *entryAPI) refresh(ctx echo.Context) error {
	limit, err := intParam(ctx, "limit", api.store.Limit())
	if err != nil {
		return err
	}
	if err := api.store.Fetch(ctx.Request().Context(), limit); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"count": len(api.store.Entries())})
}

func (api *entryAPI) submit(ctx echo.Context) error {
	var req submissionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	sub, err := req.toSubmission()
	if err != nil {
		return err
	}
	created, err := api.store.Submit(ctx.Request().Context(), sub)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toEntriesJSON(created))
}

func (api *entryAPI) update(ctx echo.Context) error {
	var req patchRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	patch, err := req.toPatch()
	if err != nil {
		return err
	}
	updated, err := api.store.Update(ctx.Request().Context(), ctx.Param("id"), patch)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toEntryJSON(updated))
}

func (api *entryAPI) destroy(ctx echo.Context) error {
	if err := api.store.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *entryAPI) clearBefore(ctx echo.Context) error {
	raw := ctx.QueryParam("before")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "before is required")
	}
	cutoff, err := domain.ParseDate(raw)
	if err != nil {
		return errBadDate
	}
	removed, err := api.store.ClearBefore(ctx.Request().Context(), cutoff)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"removed": removed})
}
