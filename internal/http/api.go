package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"modvault/internal/auth"
	"modvault/internal/domain"
	"modvault/internal/service"
	"modvault/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	comments service.CommentService
	files    service.FileService
	tokens   auth.TokenService
	storage  storage.Service
	bucket   string
	logger   *logrus.Logger
}

func NewHandler(
	users service.UserService,
	comments service.CommentService,
	files service.FileService,
	tokens auth.TokenService,
	store storage.Service,
	bucket string,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		users:    users,
		comments: comments,
		files:    files,
		tokens:   tokens,
		storage:  store,
		bucket:   bucket,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	if h.logger != nil {
		router.Use(requestLogger(h.logger))
	}

	api := router.Group("/api")
	{
		api.POST("/auth", h.authenticate)
		api.GET("/users/:id", h.getUser)

		api.GET("/comments", h.listComments)
		api.POST("/comments", authRequired(h.tokens), h.createComment)
		api.PUT("/comments/:id", authRequired(h.tokens), h.updateComment)
		api.DELETE("/comments/:id", authRequired(h.tokens), h.deleteComment)

		api.GET("/files", h.listFiles)
		api.POST("/files", identityHeaderRequired(), h.createFile)
		api.GET("/files/:id/download", h.downloadFile)
		api.DELETE("/files/:id", authRequired(h.tokens), h.deleteFile)

		api.POST("/uploads", identityHeaderRequired(), h.uploadFile)
		api.GET("/storage/objects", authRequired(h.tokens), h.listObjects)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

type authRequest struct {
	Action   string `json:"action" binding:"required"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authenticate serves both registration and login, dispatched on the body's
// action field the way the site's client expects.
func (h *Handler) authenticate(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		user *domain.User
		err  error
	)
	switch req.Action {
	case "register":
		user, err = h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	case "login":
		user, err = h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userToResponse(user),
	})
}

// getUser serves a public profile; the account email stays private.
func (h *Handler) getUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}})
}

func (h *Handler) listComments(c *gin.Context) {
	fileID, err := strconv.ParseInt(c.Query("file_id"), 10, 64)
	if err != nil || fileID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id required"})
		return
	}

	comments, err := h.comments.ListByFile(c.Request.Context(), fileID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i := range comments {
		resp[i] = commentToResponse(comments[i])
	}
	c.JSON(http.StatusOK, gin.H{"comments": resp})
}

type createCommentRequest struct {
	FileID  int64  `json:"file_id"`
	Content string `json:"content"`
	Rating  *int   `json:"rating"`
}

func (h *Handler) createComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), claimsFromContext(c), req.FileID, req.Content, req.Rating)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         comment.ID,
		"created_at": comment.CreatedAt.Format(time.RFC3339),
		"message":    "Comment created",
	})
}

type updateCommentRequest struct {
	Content string `json:"content"`
	Rating  *int   `json:"rating"`
}

func (h *Handler) updateComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.comments.Update(c.Request.Context(), claimsFromContext(c), id, req.Content, req.Rating); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment updated"})
}

func (h *Handler) deleteComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), claimsFromContext(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func (h *Handler) listFiles(c *gin.Context) {
	files, err := h.files.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]FileResponse, len(files))
	for i := range files {
		resp[i] = fileToResponse(files[i])
	}
	c.JSON(http.StatusOK, gin.H{"files": resp})
}

type createFileRequest struct {
	Name         string `json:"name"`
	Game         string `json:"game"`
	ContentType  string `json:"contentType"`
	DownloadType string `json:"downloadType"`
	ModType      string `json:"modType"`
	Size         string `json:"size"`
	Version      string `json:"version"`
	FileURL      string `json:"fileUrl"`
	FileType     string `json:"fileType"`
}

func (h *Handler) createFile(c *gin.Context) {
	var req createFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.files.Create(c.Request.Context(), &domain.UserFile{
		UserID:       userIDFromContext(c),
		Name:         req.Name,
		Game:         req.Game,
		ContentType:  req.ContentType,
		DownloadType: req.DownloadType,
		ModType:      req.ModType,
		Size:         req.Size,
		Version:      req.Version,
		FileURL:      req.FileURL,
		FileType:     req.FileType,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"file":    fileToResponse(*file),
	})
}

func (h *Handler) downloadFile(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	url, err := h.files.DownloadURL(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) deleteFile(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	warnings, err := h.files.Delete(c.Request.Context(), claimsFromContext(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"deleted": id}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}

// uploadFile streams a multipart file into object storage and answers with
// the location clients should reference when posting the file's metadata.
func (h *Handler) uploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	location, err := h.files.Upload(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"file_url":  location,
		"file_type": domain.FileTypeS3,
		"size":      fileHeader.Size,
	})
}

func (h *Handler) listObjects(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	prefix := c.Query("prefix")
	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, prefix)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondError converts service errors to JSON responses. Internal failures
// are logged but never echoed to the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrStorageNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
	default:
		if h.logger != nil {
			h.logger.WithError(err).Error("request failed")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ProfileResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

type CommentResponse struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Rating    *int   `json:"rating"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	UserID    int64  `json:"user_id"`
}

type FileResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Game         string `json:"game"`
	ContentType  string `json:"content_type"`
	DownloadType string `json:"download_type,omitempty"`
	ModType      string `json:"mod_type,omitempty"`
	Size         string `json:"size"`
	Version      string `json:"version"`
	FileURL      string `json:"file_url"`
	FileType     string `json:"file_type"`
	Downloads    int64  `json:"downloads"`
	CreatedAt    string `json:"created_at"`
	Author       string `json:"author,omitempty"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func commentToResponse(comment domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		Rating:    comment.Rating,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt: comment.UpdatedAt.Format(time.RFC3339),
		Username:  comment.Username,
		AvatarURL: comment.AvatarURL,
		UserID:    comment.UserID,
	}
}

func fileToResponse(file domain.UserFile) FileResponse {
	return FileResponse{
		ID:           file.ID,
		Name:         file.Name,
		Game:         file.Game,
		ContentType:  file.ContentType,
		DownloadType: file.DownloadType,
		ModType:      file.ModType,
		Size:         file.Size,
		Version:      file.Version,
		FileURL:      file.FileURL,
		FileType:     file.FileType,
		Downloads:    file.Downloads,
		CreatedAt:    file.CreatedAt.Format(time.RFC3339),
		Author:       file.Author,
	}
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
