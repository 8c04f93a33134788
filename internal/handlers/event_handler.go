package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/config"
	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
	"github.com/EGS-Tourist-Guide/event-service/internal/helpers"
	"github.com/EGS-Tourist-Guide/event-service/internal/models"
	"github.com/EGS-Tourist-Guide/event-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if details, ok := validateEventRequest(&req); !ok {
			badRequest(c, details)
			return
		}

		id, err := es.CreateEvent(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Location", "v1/events/"+id)
		c.Status(http.StatusCreated)
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := eventID(c)
		if !ok {
			return
		}

		view, err := es.GetEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, details, ok := parseListFilter(c)
		if !ok {
			badRequest(c, details)
			return
		}

		events, err := es.ListEvents(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := eventID(c)
		if !ok {
			return
		}

		var req models.EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if details, ok := validateEventRequest(&req); !ok {
			badRequest(c, details)
			return
		}

		if err := es.UpdateEvent(c.Request.Context(), id, &req); err != nil {
			respondError(c, err)
			return
		}

		c.Header("Location", "v1/events/"+id)
		c.Status(http.StatusOK)
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := eventID(c)
		if !ok {
			return
		}

		if err := es.DeleteEvent(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// FavoriteEvent toggles the caller's favorite mark on an event. The
// body must carry an explicit boolean; anything else is a bad request
// so that an absent field is never read as "unfavorite".
func FavoriteEvent(fs *services.FavoriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := eventID(c)
		if !ok {
			return
		}

		var body struct {
			UserID         string `json:"userid" binding:"required"`
			FavoriteStatus *bool  `json:"favoriteStatus" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.FavoriteStatus == nil {
			badRequest(c, "Body parameter <favoriteStatus> must be a boolean")
			return
		}

		if err := fs.Toggle(c.Request.Context(), id, body.UserID, *body.FavoriteStatus); err != nil {
			respondError(c, err)
			return
		}

		c.Header("Location", "v1/events/"+id)
		c.Status(http.StatusOK)
	}
}

// eventID validates the uuid path parameter, replying 400 itself when
// the value is not a canonical UUIDv4.
func eventID(c *gin.Context) (string, bool) {
	id := helpers.StringTrim(c.Param("uuid"))
	parsed, err := uuid.Parse(id)
	if err != nil || len(id) != 36 || parsed.Version() != 4 {
		badRequest(c, "URL parameter <uuid> must be a string in the UUIDv4 format")
		return "", false
	}
	return id, true
}

func validateEventRequest(req *models.EventRequest) (string, bool) {
	if !config.PriceFormatReq.MatchString(req.Price) {
		return "Body parameter <price> must be a currency prefix followed by a two-decimal amount", false
	}
	if !helpers.IsAllowedCategory(req.Category) {
		return fmt.Sprintf("Body parameter <category> must be one of the following: [%s]", strings.Join(config.AllowedCategories, ", ")), false
	}
	if !req.EndDate.After(req.StartDate) {
		return "Body parameter <enddate> must be after <startdate>", false
	}
	if req.PointOfInterestID != "" && req.PointOfInterest != nil {
		return "Body parameters <pointofinterestid> and <pointofinterest> are mutually exclusive", false
	}
	if req.PointOfInterest != nil {
		if err := models.Validate.Struct(req.PointOfInterest); err != nil {
			return "Body parameter <pointofinterest> is missing required fields", false
		}
	}
	return "", true
}

// parseListFilter validates the query string against the allowed
// parameter list and builds the store filter from it.
func parseListFilter(c *gin.Context) (models.ListFilter, string, bool) {
	var filter models.ListFilter

	for param := range c.Request.URL.Query() {
		if !allowedSearchParam(param) {
			details := fmt.Sprintf("Query parameter <%s> is not allowed. Must be one of the following: [%s]",
				param, strings.Join(config.AllowedSearchParams, ", "))
			return filter, details, false
		}
	}

	if raw, present := c.GetQuery("limit"); present {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 1 || limit > config.MaxListLimit {
			return filter, fmt.Sprintf("Query parameter <limit> must be an integer between 1 and %d", config.MaxListLimit), false
		}
		filter.Limit = limit
	}
	if raw, present := c.GetQuery("offset"); present {
		offset, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || offset < 0 {
			return filter, "Query parameter <offset> must be a non-negative integer", false
		}
		filter.Offset = offset
	}

	for _, param := range []struct {
		name string
		dest *string
	}{
		{"search", &filter.Search},
		{"name", &filter.Name},
		{"organizer", &filter.Organizer},
		{"city", &filter.City},
	} {
		if raw, present := c.GetQuery(param.name); present {
			trimmed := helpers.StringTrim(raw)
			if len(trimmed) < 1 || len(trimmed) > 256 {
				return filter, fmt.Sprintf("Query parameter <%s> must be a non-empty string up to 256 characters long", param.name), false
			}
			*param.dest = trimmed
		}
	}

	if raw, present := c.GetQuery("category"); present {
		category := strings.ToLower(helpers.StringTrim(raw))
		if !helpers.IsAllowedCategory(category) {
			return filter, fmt.Sprintf("Query parameter <category> must be one of the following: [%s]", strings.Join(config.AllowedCategories, ", ")), false
		}
		filter.Category = category
	}

	for _, param := range []struct {
		name string
		dest **time.Time
	}{
		{"startdate", &filter.StartDate},
		{"beforedate", &filter.BeforeDate},
		{"afterdate", &filter.AfterDate},
	} {
		if raw, present := c.GetQuery(param.name); present {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return filter, fmt.Sprintf("Query parameter <%s> must be a string in the RFC 3339 format", param.name), false
			}
			*param.dest = &parsed
		}
	}

	if raw, present := c.GetQuery("maxprice"); present {
		if !config.PriceFormatQuery.MatchString(raw) {
			return filter, "Query parameter <maxprice> must be a two-decimal amount such as 10.00", false
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, "Query parameter <maxprice> must be a two-decimal amount such as 10.00", false
		}
		filter.MaxPrice = &price
	}

	return filter, "", true
}

func allowedSearchParam(param string) bool {
	param = strings.ToLower(param)
	for _, allowed := range config.AllowedSearchParams {
		if param == allowed {
			return true
		}
	}
	return false
}

func badRequest(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, helpers.ErrorResponse(http.StatusBadRequest, "Bad Request", details))
}

// respondError maps a service failure onto the wire: 404/409 for
// domain outcomes, 502/504 for collaborator failures, 500 otherwise.
func respondError(c *gin.Context, err error) {
	status := faults.HTTPStatus(err)
	details := detailsFor(status)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, helpers.ErrorResponse(status, http.StatusText(status), details))
}

func detailsFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "The requested resource does not exist"
	case http.StatusConflict:
		return "The request conflicts with the current state of the resource"
	case http.StatusBadGateway:
		return "An external service failed to process the request"
	case http.StatusGatewayTimeout:
		return "An external service took too long to respond"
	default:
		return "An unexpected error has occurred. Please try again later"
	}
}
