package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/learnpath/internal/quiz"
	"github.com/abhisek/learnpath/internal/roadmap"
	"github.com/abhisek/learnpath/internal/store"
)

func (s *Server) getQuiz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": quiz.Questions()})
}

type submitQuizRequest struct {
	UserID  string       `json:"user_id" binding:"required"`
	Answers quiz.Answers `json:"answers"`
}

func (s *Server) submitQuiz(c *gin.Context) {
	var req submitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := s.svc.Quiz.Submit(c.Request.Context(), req.UserID, req.Answers)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"submission_id":     out.Submission.ID,
		"score":             out.Result.Score,
		"level":             out.Result.Level,
		"weak_topics":       out.Weak,
		"strong_topics":     out.Strong,
		"roadmap":           out.Submission.Roadmap,
		"document":          out.Document,
		"generated_offline": out.GeneratedOffline,
	})
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := s.svc.Users.GetByEmail(ctx, req.Email); err == nil {
		writeError(c, fmt.Errorf("%s: %w", req.Email, errDuplicateEmail))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(c, err)
		return
	}

	u := &store.User{Name: req.Name, Email: req.Email}
	if err := s.svc.Users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			err = fmt.Errorf("%s: %w", req.Email, errDuplicateEmail)
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) getRoadmap(c *gin.Context) {
	sub, err := s.svc.Quiz.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no quiz submission yet"})
		return
	}
	doc := roadmap.Parse(sub.Roadmap)
	c.JSON(http.StatusOK, gin.H{
		"level":    sub.Level,
		"score":    sub.Score,
		"roadmap":  sub.Roadmap,
		"document": doc,
		"text":     roadmap.RenderText(doc, sub.Roadmap),
	})
}

type assignRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	DurationWeeks int    `json:"duration_weeks"`
}

func (s *Server) assignTask(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.svc.Assigner.Assign(c.Request.Context(), req.UserID, req.DurationWeeks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) listTasks(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		badRequest(c, errors.New("user_id query parameter is required"))
		return
	}
	list, err := s.svc.Tasks.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []store.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": list})
}

func (s *Server) getTask(c *gin.Context) {
	t, err := s.svc.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type attachRequest struct {
	FileURL string `json:"file_url" binding:"required"`
}

func (s *Server) attachFile(c *gin.Context) {
	var req attachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := s.svc.Tasks.AttachFile(c.Request.Context(), c.Param("id"), req.FileURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) uploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Errorf("file: %w", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	t, err := s.svc.Tasks.Upload(c.Request.Context(), c.Param("id"), fh.Filename, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type contentRequest struct {
	Content string `json:"content"`
}

func (s *Server) submitTask(c *gin.Context) {
	var req contentRequest
	if !bindOptional(c, &req) {
		return
	}
	t, err := s.svc.Tasks.Submit(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task submitted successfully", "task": t})
}

func (s *Server) completeTask(c *gin.Context) {
	var req contentRequest
	if !bindOptional(c, &req) {
		return
	}
	t, err := s.svc.Tasks.MarkCompleted(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task marked as completed", "task": t})
}

func (s *Server) listUsers(c *gin.Context) {
	rows, err := s.svc.Dashboard.Overview(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": rows})
}

func (s *Server) userSummary(c *gin.Context) {
	sum, err := s.svc.Dashboard.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// bindOptional binds a JSON body when one was sent.
func bindOptional(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}
