package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/city"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httpresp"
	ucCity "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/usecase/city"
)

type CityHandler struct {
	createUC *ucCity.CreateCity
	updateUC *ucCity.UpdateCity
	deleteUC *ucCity.DeleteCity
	getUC    *ucCity.GetCity
	listUC   *ucCity.ListCities
}

func NewCityHandler(
	createUC *ucCity.CreateCity,
	updateUC *ucCity.UpdateCity,
	deleteUC *ucCity.DeleteCity,
	getUC *ucCity.GetCity,
	listUC *ucCity.ListCities,
) *CityHandler {
	return &CityHandler{
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		getUC:    getUC,
		listUC:   listUC,
	}
}

type CityRequest struct {
	Name    string `json:"name"`
	ZIPCode string `json:"zip_code"`
}

func (h *CityHandler) Create(c *gin.Context) {
	var req CityRequest
	if !bindJSON(c, &req) {
		return
	}

	city, err := h.createUC.Execute(c.Request.Context(), domain.Input{Name: req.Name, ZIPCode: req.ZIPCode})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "/api/cities/"+city.ID.String(), city)
}

func (h *CityHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CityRequest
	if !bindJSON(c, &req) {
		return
	}

	city, err := h.updateUC.Execute(c.Request.Context(), id, domain.Input{Name: req.Name, ZIPCode: req.ZIPCode})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, city)
}

func (h *CityHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

func (h *CityHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	city, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, city)
}

func (h *CityHandler) List(c *gin.Context) {
	cities, err := h.listUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, cities)
}
