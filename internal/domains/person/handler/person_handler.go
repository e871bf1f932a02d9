package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"person-registry/internal/domains/person"
	"person-registry/internal/shared/response"
	"person-registry/pkg/logger"
)

// PersonHandler is the HTTP layer over the batch mutation engine and the
// query resolver. Status policy: 200 whenever at least one batch item
// succeeded, 4xx only for "nothing succeeded" or hard input-shape
// violations, 500 for unclassified failures with a generic message.
type PersonHandler struct {
	service person.Service
}

func NewPersonHandler(service person.Service) *PersonHandler {
	return &PersonHandler{service: service}
}

// Insert handles POST /person: one record or an array of records.
func (h *PersonHandler) Insert(c *gin.Context) {
	var req person.InsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if len(req.Entries) == 0 {
		response.BadRequest(c, "send at least one record")
		return
	}

	outcome, err := h.service.InsertBatch(c.Request.Context(), req.Entries)
	if err != nil {
		h.internalError(c, "could not insert record(s)", err)
		return
	}

	if len(outcome.Inserted) == 0 {
		if len(outcome.Duplicates) > 0 {
			response.ErrorWithDetails(c, http.StatusBadRequest, "CONFLICT",
				"some emails already exist; query the existing records to view them", outcome)
			return
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"no records were inserted", outcome)
		return
	}

	message := fmt.Sprintf("%d record(s) inserted successfully", len(outcome.Inserted))
	if len(outcome.Duplicates) > 0 || len(outcome.Invalid) > 0 {
		message = "some records were inserted, but others already existed or were invalid"
	}
	response.Success(c, http.StatusOK, message, outcome)
}

// Update handles PUT /person: one record or an array of records, each with
// its id.
func (h *PersonHandler) Update(c *gin.Context) {
	var req person.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if len(req.Entries) == 0 {
		response.BadRequest(c, "send at least one record")
		return
	}

	outcome, err := h.service.UpdateBatch(c.Request.Context(), req.Entries)
	if err != nil {
		h.internalError(c, "could not update record(s)", err)
		return
	}

	if len(outcome.Updated) == 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"no updates completed", outcome)
		return
	}

	// Partial success is still success: the conflict, not-found and error
	// lists ride along for visibility.
	response.Success(c, http.StatusOK, "update completed", outcome)
}

// Delete handles DELETE /person: a non-empty id list plus an explicit
// confirmation flag.
func (h *PersonHandler) Delete(c *gin.Context) {
	var req person.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	outcome, err := h.service.Delete(c.Request.Context(), req)
	if err != nil {
		var confirmErr *person.ConfirmationRequiredError
		switch {
		case errors.Is(err, person.ErrNoIDs):
			response.BadRequest(c, "send a list with at least one id to delete")
		case errors.As(err, &confirmErr):
			response.ErrorResponse(c, http.StatusBadRequest, "CONFIRMATION_REQUIRED", confirmErr.Error())
		case errors.Is(err, person.ErrNoneFound):
			response.NotFound(c, err.Error())
		default:
			h.internalError(c, "could not delete record(s)", err)
		}
		return
	}

	message := fmt.Sprintf("%d record(s) deleted successfully", outcome.DeletedCount)
	response.Success(c, http.StatusOK, message, outcome)
}

// Query handles GET /person. The selector comes from the JSON body or from
// the id/ids query parameters; with neither, every record is returned.
func (h *PersonHandler) Query(c *gin.Context) {
	req, err := bindQueryRequest(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.service.Query(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, person.ErrPersonNotFound), errors.Is(err, person.ErrNoneFound):
			response.NotFound(c, err.Error())
		default:
			h.internalError(c, "could not query record(s)", err)
		}
		return
	}

	message := "records loaded successfully"
	if req.ID != nil || len(req.IDs) > 0 {
		message = "search completed"
	}
	response.Success(c, http.StatusOK, message, outcome)
}

func bindQueryRequest(c *gin.Context) (person.QueryRequest, error) {
	var req person.QueryRequest

	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, errors.New("invalid request body")
		}
		return req, nil
	}

	if raw, ok := c.GetQuery("id"); ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, errors.New("the 'id' parameter must be numeric")
		}
		req.ID = &id
		return req, nil
	}

	if raw, ok := c.GetQuery("ids"); ok {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return req, errors.New("the 'ids' parameter must be a comma-separated list of numbers")
			}
			req.IDs = append(req.IDs, id)
		}
	}

	return req, nil
}

func (h *PersonHandler) internalError(c *gin.Context, message string, err error) {
	// Internal detail is logged, never echoed to the caller.
	logger.Error(message, err)
	response.InternalServerError(c, message)
}
