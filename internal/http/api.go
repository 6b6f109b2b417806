package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-planner/internal/domain"
	"todo-planner/internal/service"
)

// Handler wires HTTP routes to domain services. POST bodies are browser
// form submissions; GET responses are JSON view models for the (external)
// template layer.
type Handler struct {
	users    service.UserService
	todos    service.TodoService
	sessions *SessionManager
	logger   *logrus.Logger
}

func NewHandler(users service.UserService, todos service.TodoService, sessions *SessionManager, logger *logrus.Logger) *Handler {
	return &Handler{
		users:    users,
		todos:    todos,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.home)
	router.GET("/register", h.registerPage)
	router.POST("/register", h.register)
	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	auth := router.Group("/", h.sessions.RequireAuth())
	{
		auth.GET("/logout", h.logout)
		auth.GET("/my_page", h.myPage)
		auth.GET("/add", h.addPage)
		auth.POST("/add", h.add)
		auth.GET("/edit", h.editPage)
		auth.POST("/edit", h.edit)
		auth.GET("/delete", h.delete)
	}
}

type HomeResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
	Flash    string `json:"flash,omitempty"`
}

type PageResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Flash    string `json:"flash,omitempty"`
}

type MyPageResponse struct {
	Username string     `json:"username"`
	Todos    []TodoView `json:"todos"`
	Flash    string     `json:"flash,omitempty"`
}

type EditPageResponse struct {
	Todo  TodoView `json:"todo"`
	Flash string   `json:"flash,omitempty"`
}

type TodoView struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
	Details  string `json:"details"`
}

func (h *Handler) home(c *gin.Context) {
	resp := HomeResponse{Flash: takeFlash(c)}

	if userID, ok := h.sessions.CurrentUser(c); ok {
		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			// stale session for a vanished user; treat as anonymous
			h.logger.WithError(err).WithField("user_id", userID).Warn("session user lookup failed")
		} else {
			resp.LoggedIn = true
			resp.Username = user.Username
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) registerPage(c *gin.Context) {
	_, loggedIn := h.sessions.CurrentUser(c)
	c.JSON(http.StatusOK, PageResponse{LoggedIn: loggedIn, Flash: takeFlash(c)})
}

func (h *Handler) register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Register(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			setFlash(c, "You've already signed up with that username, log in instead!")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		setFlash(c, err.Error())
		c.Redirect(http.StatusFound, "/register")
		return
	}

	if err := h.sessions.Issue(c, user.ID); err != nil {
		h.internalError(c, "issue session", err)
		return
	}
	h.logger.WithField("username", user.Username).Info("user registered")
	c.Redirect(http.StatusFound, "/my_page")
}

func (h *Handler) loginPage(c *gin.Context) {
	_, loggedIn := h.sessions.CurrentUser(c)
	c.JSON(http.StatusOK, PageResponse{LoggedIn: loggedIn, Flash: takeFlash(c)})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownUsername):
			setFlash(c, "That username does not exist, please try again.")
		case errors.Is(err, service.ErrWrongPassword):
			setFlash(c, "Password incorrect, please try again.")
		default:
			h.internalError(c, "authenticate", err)
			return
		}
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if err := h.sessions.Issue(c, user.ID); err != nil {
		h.internalError(c, "issue session", err)
		return
	}
	c.Redirect(http.StatusFound, "/my_page")
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) myPage(c *gin.Context) {
	userID := currentUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "load user", err)
		return
	}

	todos, err := h.todos.ListForOwner(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "list todos", err)
		return
	}

	resp := MyPageResponse{
		Username: user.Username,
		Todos:    make([]TodoView, len(todos)),
		Flash:    takeFlash(c),
	}
	for i := range todos {
		resp.Todos[i] = todoToView(todos[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) addPage(c *gin.Context) {
	c.JSON(http.StatusOK, PageResponse{LoggedIn: true, Flash: takeFlash(c)})
}

func (h *Handler) add(c *gin.Context) {
	userID := currentUserID(c)

	_, err := h.todos.Create(
		c.Request.Context(),
		userID,
		c.PostForm("title"),
		c.PostForm("deadline"),
		c.PostForm("details"),
	)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateTitle) {
			setFlash(c, "A to-do with that title already exists.")
		} else {
			setFlash(c, err.Error())
		}
		c.Redirect(http.StatusFound, "/add")
		return
	}

	c.Redirect(http.StatusFound, "/my_page")
}

func (h *Handler) editPage(c *gin.Context) {
	id, ok := h.todoIDFromQuery(c)
	if !ok {
		return
	}

	todo, err := h.todos.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.todoError(c, err, "/my_page")
		return
	}

	c.JSON(http.StatusOK, EditPageResponse{Todo: todoToView(*todo), Flash: takeFlash(c)})
}

func (h *Handler) edit(c *gin.Context) {
	id, ok := h.todoIDFromQuery(c)
	if !ok {
		return
	}

	err := h.todos.Update(
		c.Request.Context(),
		currentUserID(c),
		id,
		c.PostForm("title"),
		c.PostForm("deadline"),
		c.PostForm("details"),
	)
	if err != nil {
		h.todoError(c, err, fmt.Sprintf("/edit?id=%d", id))
		return
	}

	c.Redirect(http.StatusFound, "/my_page")
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := h.todoIDFromQuery(c)
	if !ok {
		return
	}

	if err := h.todos.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.todoError(c, err, "/my_page")
		return
	}

	c.Redirect(http.StatusFound, "/my_page")
}

func (h *Handler) todoIDFromQuery(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || id <= 0 {
		setFlash(c, "Invalid to-do id.")
		c.Redirect(http.StatusFound, "/my_page")
		return 0, false
	}
	return id, true
}

// todoError surfaces a taxonomy error as flash+redirect and anything else
// as a 500; no domain error is fatal to the process.
func (h *Handler) todoError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		setFlash(c, "That to-do does not exist.")
		c.Redirect(http.StatusFound, "/my_page")
	case errors.Is(err, service.ErrDuplicateTitle):
		setFlash(c, "A to-do with that title already exists.")
		c.Redirect(http.StatusFound, fallback)
	default:
		setFlash(c, err.Error())
		c.Redirect(http.StatusFound, fallback)
	}
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	h.logger.WithError(err).Error(op)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func todoToView(todo domain.Todo) TodoView {
	return TodoView{
		ID:       todo.ID,
		Title:    todo.Title,
		Deadline: todo.Deadline,
		Details:  todo.Details,
	}
}
