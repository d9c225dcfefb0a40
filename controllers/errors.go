package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/services"
	"github.com/yeremiapane/paint-queue/utils"
)

var ErrInvalidCredentials = &CustomError{"invalid credentials"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var workflowStatus = map[services.ErrorKind]int{
	services.KindInvalidTransition:  http.StatusConflict,
	services.KindMissingEmployee:    http.StatusBadRequest,
	services.KindUnresolvedEmployee: http.StatusUnprocessableEntity,
	services.KindMissingColourCode:  http.StatusPreconditionRequired,
	services.KindForbidden:          http.StatusForbidden,
	services.KindStoreUnavailable:   http.StatusBadGateway,
}

// respondServiceError maps queue errors to a status code and keeps the
// error kind in the body, so the UI can tell a bad input from a dead
// network.
func respondServiceError(c *gin.Context, err error) {
	var wfErr *services.WorkflowError
	var valErr *services.ValidationError

	switch {
	case errors.As(err, &wfErr):
		code, ok := workflowStatus[wfErr.Kind]
		if !ok {
			code = http.StatusInternalServerError
		}
		if wfErr.Kind == services.KindStoreUnavailable {
			utils.ErrorLogger.Errorf("order store error: %v", err)
			utils.RespondErrorData(c, code, errors.New(wfErr.Message), gin.H{"kind": wfErr.Kind})
			return
		}
		utils.RespondErrorData(c, code, err, gin.H{"kind": wfErr.Kind})
	case errors.As(err, &valErr):
		utils.RespondErrorData(c, http.StatusBadRequest, err, gin.H{"field": valErr.Field})
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrEmployeeNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrDuplicateOrder), errors.Is(err, services.ErrTransactionIDTaken):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrUpdateCancelled):
		utils.RespondError(c, http.StatusRequestTimeout, services.ErrUpdateCancelled)
	default:
		utils.ErrorLogger.Errorf("unexpected error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
