package api

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Confirm  string `json:"confirm" binding:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateTaskRequest is the body of POST /tasks. Deadline accepts the same
// formats as the CLI.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Color       string `json:"color"`
	Priority    string `json:"priority"`
}

// EditTaskRequest is the body of PATCH /tasks/:id. Absent fields are left
// alone.
type EditTaskRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Deadline      *string `json:"deadline"`
	ClearDeadline bool    `json:"clear_deadline"`
	Color         *string `json:"color"`
	Priority      *string `json:"priority"`
}
