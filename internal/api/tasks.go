package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

// TaskResponse is a task with the status to display for it.
type TaskResponse struct {
	*task.Task
	EffectiveStatus task.Status   `json:"effective_status"`
	Actions         []task.Action `json:"actions"`
}

func (s *Server) taskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		Task:            t,
		EffectiveStatus: task.EffectiveStatus(t, s.deps.Now()),
		Actions:         task.Available(t.Status),
	}
}

// viewOptions overlays the status, priority, sort and overdue query
// parameters on the configured defaults.
func (s *Server) viewOptions(c *gin.Context) (view.Options, error) {
	opts := s.deps.View
	if v := c.Query("status"); v != "" {
		f, err := view.ParseStatusFilter(v)
		if err != nil {
			return opts, err
		}
		opts.Status = f
	}
	if v := c.Query("priority"); v != "" {
		f, err := view.ParsePriorityFilter(v)
		if err != nil {
			return opts, err
		}
		opts.Priority = f
	}
	if v := c.Query("sort"); v != "" {
		o, err := view.ParseSortOption(v)
		if err != nil {
			return opts, err
		}
		opts.Sort = o
	}
	if v := c.Query("overdue"); v != "" {
		p, err := view.ParseOverduePolicy(v)
		if err != nil {
			return opts, err
		}
		opts.Policy = p
	}
	return opts, nil
}

func (s *Server) listTasks(c *gin.Context) {
	opts, err := s.viewOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	rows, err := s.boardFor(c).List(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

func (s *Server) getTask(c *gin.Context) {
	t, err := s.boardFor(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, s.taskResponse(t))
}

func (s *Server) createTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, clierr.Newf(clierr.InvalidInput, "invalid input: %v", err))
		return
	}
	d := task.Draft{Title: req.Title, Description: req.Description, Color: req.Color}
	if req.Deadline != "" {
		dl, err := s.parseDeadline(req.Deadline)
		if err != nil {
			fail(c, err)
			return
		}
		d.Deadline = &dl
	}
	if req.Priority != "" {
		p, err := task.ParsePriority(req.Priority)
		if err != nil {
			fail(c, err)
			return
		}
		d.Priority = p
	}

	t, err := s.boardFor(c).Create(c.Request.Context(), d)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, s.taskResponse(t))
}

func (s *Server) editTask(c *gin.Context) {
	var req EditTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, clierr.Newf(clierr.InvalidInput, "invalid input: %v", err))
		return
	}
	p := task.Patch{
		Title:         req.Title,
		Description:   req.Description,
		ClearDeadline: req.ClearDeadline,
		Color:         req.Color,
	}
	if req.Deadline != nil {
		dl, err := s.parseDeadline(*req.Deadline)
		if err != nil {
			fail(c, err)
			return
		}
		p.Deadline = &dl
	}
	if req.Priority != nil {
		pr, err := task.ParsePriority(*req.Priority)
		if err != nil {
			fail(c, err)
			return
		}
		p.Priority = &pr
	}

	t, err := s.boardFor(c).Edit(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, s.taskResponse(t))
}

func (s *Server) actTask(c *gin.Context) {
	a, err := task.ParseAction(c.Param("action"))
	if err != nil {
		fail(c, err)
		return
	}
	t, err := s.boardFor(c).Act(c.Request.Context(), c.Param("id"), a)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, s.taskResponse(t))
}

func (s *Server) deleteTask(c *gin.Context) {
	t, err := s.boardFor(c).Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": t.ID})
}

func (s *Server) summary(c *gin.Context) {
	sum, err := s.boardFor(c).Summary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, sum)
}

func (s *Server) calendar(c *gin.Context) {
	month := date.Of(s.deps.Now(), s.deps.Loc).FirstOfMonth()
	if v := c.Query("month"); v != "" {
		m, err := date.ParseMonth(v)
		if err != nil {
			fail(c, task.ValidateDate("month", v, err))
			return
		}
		month = m
	}
	all, err := s.boardFor(c).All(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, view.Calendar(all, month, s.deps.Loc))
}

func (s *Server) parseDeadline(v string) (time.Time, error) {
	dl, err := date.ParseDeadline(v, s.deps.Loc)
	if err != nil {
		return time.Time{}, task.ValidateDate("deadline", v, err)
	}
	return dl, nil
}
