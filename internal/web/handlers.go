package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "storebot/internal/common/errors"
	normalizetext "storebot/internal/conversation/normalize-text"
	resolveintent "storebot/internal/conversation/resolve-intent"
	storelookup "storebot/internal/data-access/store-lookup"
	"storebot/internal/models"
)

const maxBodyBytes = 64 << 10

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	RequestID string          `json:"requestId"`
	Response  string          `json:"response"`
	Rule      string          `json:"rule"`
	Entities  []models.Entity `json:"entities"`
	Tokens    []string        `json:"tokens,omitempty"`
	Lemmas    []string        `json:"lemmas,omitempty"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, gin.H{"Title": "Chatbot"})
}

// handleForm accepts the "question" field, or the older "pregunta" field.
func (s *Server) handleForm(c *gin.Context) {
	question, ok := c.GetPostForm("question")
	if !ok {
		question = c.PostForm("pregunta")
	}

	output, err := s.opts.Resolver.Execute(c.Request.Context(), &resolveintent.Input{Question: question})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, indexTemplate, gin.H{
		"Title":    "Chatbot",
		"Question": question,
		"Response": output.Response,
	})
}

func (s *Server) handleAsk(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		s.fail(c, apperrors.NewInvalidRequestError("unreadable body"))
		return
	}

	result, err := s.askSchema.Validate(body)
	if err != nil {
		s.fail(c, apperrors.NewInvalidRequestError("body is not valid JSON"))
		return
	}
	if !result.Valid {
		s.fail(c, apperrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; ")))
		return
	}

	var req askRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(c, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	output, err := s.opts.Resolver.Execute(c.Request.Context(), &resolveintent.Input{Question: req.Question})
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := askResponse{
		RequestID: requestID(c),
		Response:  output.Response,
		Rule:      output.Rule,
		Entities:  output.Entities,
	}

	if s.opts.Normalizer != nil {
		normalized, err := s.opts.Normalizer.Execute(c.Request.Context(), &normalizetext.Input{Text: req.Question})
		if err != nil {
			s.logger.Warn("normalization failed", map[string]interface{}{
				"requestId": requestID(c),
				"error":     err.Error(),
			})
		} else {
			resp.Tokens = normalized.Tokens
			resp.Lemmas = normalized.Lemmas
		}
	}

	c.JSON(http.StatusOK, resp)
}

// handleLookup exposes query(kind, fragment) for operators. Fragment is ?q=.
func (s *Server) handleLookup(c *gin.Context) {
	output, err := s.opts.Lookup.Execute(c.Request.Context(), &storelookup.Input{
		Kind:     c.Param("kind"),
		Fragment: c.Query("q"),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrLookupUnavailable) {
			err = apperrors.NewLookupUnavailableError(c.Param("kind"), err)
		}
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requestId":          requestID(c),
		"kind":               c.Param("kind"),
		"data":               output.Data,
		"rowCount":           output.RowCount,
		"queryExecutionTime": output.QueryExecutionTime,
	})
}
