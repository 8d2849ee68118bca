package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jobdomain "github.com/estilistapro/estilista/internal/job/domain"
	"github.com/estilistapro/estilista/pkg/db/pagination"
)

type createJobRequest struct {
	ClientID    string   `json:"client_id"`
	Amount      int64    `json:"amount"`
	TipAmount   int64    `json:"tip_amount"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Photos      []string `json:"photos"`
	Rating      *int     `json:"rating"`
	Tags        []string `json:"tags"`
}

func (s *Server) CreateJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseRequiredDate(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}
	clientID, err := parseOptionalSnowflakeID(req.ClientID)
	if err != nil {
		AbortWithError(c, newValidationError("client_id", "invalid_client_id", "invalid client_id"))
		return
	}

	resp, err := s.jobSvc.Create(c.Request.Context(), jobdomain.CreateJobRequest{
		ClientID:    clientID,
		Amount:      req.Amount,
		TipAmount:   req.TipAmount,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		Photos:      req.Photos,
		Rating:      req.Rating,
		Tags:        req.Tags,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordJobMutation(c, "create")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListJobs(c *gin.Context) {
	var query struct {
		pagination.Pagination
		From     string `form:"from"`
		To       string `form:"to"`
		ClientID string `form:"client_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}
	clientID, err := parseOptionalSnowflakeID(query.ClientID)
	if err != nil {
		AbortWithError(c, newValidationError("client_id", "invalid_client_id", "invalid client_id"))
		return
	}

	resp, err := s.jobSvc.List(c.Request.Context(), jobdomain.ListJobRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		From:      from,
		To:        to,
		ClientID:  clientID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetJobByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.jobSvc.GetByID(c.Request.Context(), jobdomain.GetJobRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateJobRequest struct {
	ClientID    *string   `json:"client_id"`
	Amount      *int64    `json:"amount"`
	TipAmount   *int64    `json:"tip_amount"`
	Date        *string   `json:"date"`
	Description *string   `json:"description"`
	Photos      *[]string `json:"photos"`
	Rating      *int      `json:"rating"`
	Tags        *[]string `json:"tags"`
}

func (s *Server) UpdateJob(c *gin.Context) {
	var req updateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := jobdomain.UpdateJobRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Amount:      req.Amount,
		TipAmount:   req.TipAmount,
		Description: req.Description,
		Photos:      req.Photos,
		Rating:      req.Rating,
		Tags:        req.Tags,
	}
	if req.Date != nil {
		date, err := parseRequiredDate(*req.Date)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
			return
		}
		update.Date = &date
	}
	if req.ClientID != nil {
		clientID, err := parseOptionalSnowflakeID(*req.ClientID)
		if err != nil {
			AbortWithError(c, newValidationError("client_id", "invalid_client_id", "invalid client_id"))
			return
		}
		update.ClientID = clientID
	}

	resp, err := s.jobSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordJobMutation(c, "update")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteJob(c *gin.Context) {
	err := s.jobSvc.Delete(c.Request.Context(), jobdomain.DeleteJobRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordJobMutation(c, "delete")
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) recordJobMutation(c *gin.Context, op string) {
	if s.obsMetrics == nil {
		return
	}
	s.obsMetrics.RecordJobMutation(c.Request.Context(), op)
}

func isJobValidationError(err error) bool {
	switch err {
	case jobdomain.ErrInvalidID,
		jobdomain.ErrInvalidAmount,
		jobdomain.ErrInvalidTip,
		jobdomain.ErrInvalidRating,
		jobdomain.ErrInvalidDate:
		return true
	default:
		return false
	}
}
