package orderstore

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/paint-queue/models"
	"github.com/yeremiapane/paint-queue/services"
)

// Handler serves the Order Store REST contract. Bodies are plain JSON,
// without the front end's response envelope.
type Handler struct {
	Repo *Repository
	log  *logrus.Logger
}

func NewHandler(repo *Repository, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{Repo: repo, log: log}
}

func (h *Handler) fail(c *gin.Context, code int, err error) {
	if code >= 500 {
		h.log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.Repo.List(false)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) ListActiveOrders(c *gin.Context) {
	orders, err := h.Repo.List(true)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var in models.NewOrder
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	switch {
	case !services.ValidTransactionID(in.TransactionID):
		h.fail(c, http.StatusBadRequest, errors.New("transaction_id must look like DDMMYYYY-NNNN"))
		return
	case strings.TrimSpace(in.CustomerName) == "", strings.TrimSpace(in.PaintType) == "":
		h.fail(c, http.StatusBadRequest, errors.New("customer_name and paint_type are required"))
		return
	case !in.Category.Valid():
		h.fail(c, http.StatusBadRequest, errors.New("unknown category"))
		return
	}

	order := in.ToOrder()
	order.CurrentStatus = models.StatusWaiting
	if order.ColourCode == "" {
		order.ColourCode = models.ColourCodeNA
	}

	created, err := h.Repo.Create(order)
	switch {
	case errors.Is(err, ErrDuplicate):
		h.fail(c, http.StatusConflict, err)
		return
	case err != nil:
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	h.log.Infof("order %s created", created.TransactionID)
	c.JSON(http.StatusCreated, created)
}

// UpdateOrder applies a status patch. The store keeps its own guard on the
// transition graph and on admin-only completion.
func (h *Handler) UpdateOrder(c *gin.Context) {
	var patch models.StatusPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	id := c.Param("transaction_id")
	current, err := h.Repo.Get(id)
	if errors.Is(err, ErrNotFound) {
		h.fail(c, http.StatusNotFound, err)
		return
	} else if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}

	if !services.CanTransition(current.CurrentStatus, patch.CurrentStatus) {
		h.fail(c, http.StatusConflict, errors.New("status change not allowed"))
		return
	}
	if patch.CurrentStatus == models.StatusComplete && patch.Role != models.RoleAdmin {
		h.fail(c, http.StatusForbidden, errors.New("only admins can complete orders"))
		return
	}

	update := models.StatusUpdate{
		CurrentStatus:    patch.CurrentStatus,
		AssignedEmployee: current.AssignedEmployee,
		ColourCode:       current.ColourCode,
	}
	if patch.AssignedEmployee != nil {
		update.AssignedEmployee = *patch.AssignedEmployee
	}
	if patch.ColourCode != nil {
		update.ColourCode = *patch.ColourCode
	}
	next := update.Apply(current)
	if next.CurrentStatus == models.StatusReady && !next.ColourCodeKnown() {
		h.fail(c, http.StatusUnprocessableEntity, errors.New("colour code required before Ready"))
		return
	}

	updated, err := h.Repo.Apply(id, update)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	h.log.Infof("order %s: %s -> %s", id, current.CurrentStatus, updated.CurrentStatus)
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) LookupEmployee(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		h.fail(c, http.StatusBadRequest, errors.New("code is required"))
		return
	}
	emp, err := h.Repo.FindEmployee(code)
	if errors.Is(err, ErrNotFound) {
		h.fail(c, http.StatusNotFound, errors.New("employee not found"))
		return
	} else if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employee_name": emp.EmployeeName})
}

func (h *Handler) CheckDuplicate(c *gin.Context) {
	exists, err := h.Repo.Exists(
		c.Query("customer_name"),
		c.Query("client_contact"),
		c.Query("paint_type"),
		models.Category(c.Query("category")),
	)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
