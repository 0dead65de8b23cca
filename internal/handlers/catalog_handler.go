package handlers

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/znsio/specmatic-product-catalog-go/internal/models"
	"github.com/znsio/specmatic-product-catalog-go/internal/services"
	"github.com/znsio/specmatic-product-catalog-go/internal/views"
	"github.com/znsio/specmatic-product-catalog-go/pkg/utils"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const indexTemplate = "index.tmpl"

func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))
}

type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (models.Product, error)
}

type CatalogController struct {
	App      *views.App
	Products ProductLookup
}

type submitRequest struct {
	Name string `json:"name"`
}

func (cc *CatalogController) Index(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, cc.App.Snapshot())
}

// SubmitForm handles the HTML form post. Outcomes land in the view state, so
// every path redirects back to the page.
func (cc *CatalogController) SubmitForm(c *gin.Context) {
	cc.App.Form.SetName(c.PostForm("name"))
	recordSubmitError(c, cc.App.Form.Submit(viewContext(c)))

	c.Redirect(http.StatusSeeOther, "/")
}

func (cc *CatalogController) KeyPress(c *gin.Context) {
	cc.App.Form.SetName(c.PostForm("name"))
	recordSubmitError(c, cc.App.Form.KeyPress(viewContext(c), c.PostForm("key")))

	c.Redirect(http.StatusSeeOther, "/")
}

func (cc *CatalogController) Refresh(c *gin.Context) {
	cc.App.List.Refresh(viewContext(c))

	c.Redirect(http.StatusSeeOther, "/")
}

func (cc *CatalogController) State(c *gin.Context) {
	c.JSON(http.StatusOK, cc.App.Snapshot())
}

// SubmitJSON is the scripted equivalent of SubmitForm. It answers with the
// resulting view state; backend failures show up in form.error.
func (cc *CatalogController) SubmitJSON(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cc.App.Form.SetName(req.Name)
	recordSubmitError(c, cc.App.Form.Submit(viewContext(c)))

	c.JSON(http.StatusOK, cc.App.Snapshot())
}

func (cc *CatalogController) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "product id must be a valid integer")
		return
	}

	product, err := cc.Products.GetProduct(c.Request.Context(), id)
	if err != nil {
		if services.IsNotFound(err) {
			utils.ErrorResponse(c, http.StatusNotFound, "product not found")
			return
		}
		utils.ErrorResponse(c, http.StatusBadGateway, "failed to load product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// viewContext keeps request values but drops cancellation. The views are
// shared by every visitor, so a dropped connection must not abort their
// backend calls.
func viewContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// recordSubmitError attaches a failed submit to the request for the request
// logger. A blank name is a no-op, not a failure.
func recordSubmitError(c *gin.Context, err error) {
	if err == nil || errors.Is(err, views.ErrBlankName) {
		return
	}
	_ = c.Error(err)
}
