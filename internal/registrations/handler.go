package registrations

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpass/backend/internal/models"
	"github.com/eventpass/backend/internal/qrcode"
	"github.com/eventpass/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportMaxRows bounds a single spreadsheet download.
const exportMaxRows = 10000

// StatsProvider returns dashboard counts. *StatsCache implements it.
type StatsProvider interface {
	Stats(ctx context.Context) (Stats, error)
}

// SVGRenderer draws a payload as SVG. *qrcode.Generator implements it.
type SVGRenderer interface {
	RenderSVG(payload string, size int) (string, error)
}

// FormResponse is the body returned for a form submission.
type FormResponse struct {
	Success          bool                         `json:"success"`
	Message          string                       `json:"message"`
	QRCode           string                       `json:"qrCode,omitempty"`
	RegistrationData *models.AttendeeRegistration `json:"registrationData,omitempty"`
	RegistrationID   *uuid.UUID                   `json:"registrationId,omitempty"`
	Errors           map[string][]string          `json:"errors,omitempty"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	svc    *Service
	store  Store
	stats  StatsProvider
	svg    SVGRenderer
	logger *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(svc *Service, store Store, stats StatsProvider, svg SVGRenderer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, store: store, stats: stats, svg: svg, logger: logger}
}

// Submit handles POST /registrations. Accepts JSON, multipart or urlencoded forms.
func (h *Handler) Submit(c *gin.Context) {
	var in Input
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, FormResponse{
			Success: false,
			Message: MessageValidation,
			Errors:  map[string][]string{"form": {"Invalid form submission"}},
		})
		return
	}
	status, body := FormResult(h.svc.Register(c.Request.Context(), in))
	c.JSON(status, body)
}

// FormResult maps a workflow result to the HTTP status and body. A duplicate
// email is a handled outcome and is reported with 200 and success false.
func FormResult(r Result) (int, FormResponse) {
	if r.OK() {
		reg := r.Success.Registration
		return http.StatusOK, FormResponse{
			Success:          true,
			Message:          MessageSuccess,
			QRCode:           r.Success.QRCode,
			RegistrationData: reg,
			RegistrationID:   &reg.ID,
		}
	}
	f := r.Failure
	body := FormResponse{Success: false, Message: f.Message, Errors: f.Fields}
	switch f.Kind {
	case FailureValidation:
		return http.StatusBadRequest, body
	case FailureConflict:
		return http.StatusOK, body
	default:
		return http.StatusInternalServerError, body
	}
}

func filterFromQuery(c *gin.Context) Filter {
	return Filter{
		Email:     strings.TrimSpace(c.Query("email")),
		FirstName: strings.TrimSpace(c.Query("firstName")),
		LastName:  strings.TrimSpace(c.Query("lastName")),
	}
}

func intQuery(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// List handles GET /registrations.
func (h *Handler) List(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		response.BadRequest(c, "invalid limit")
		return
	}
	offset, err := intQuery(c, "offset")
	if err != nil {
		response.BadRequest(c, "invalid offset")
		return
	}
	limit, offset = Page(limit, offset)
	list, err := h.store.List(c.Request.Context(), filterFromQuery(c), limit, offset)
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "failed to list registrations")
		return
	}
	response.OK(c, gin.H{"registrations": list, "limit": limit, "offset": offset})
}

// Get handles GET /registrations/:id.
func (h *Handler) Get(c *gin.Context) {
	reg, ok := h.loadByID(c)
	if !ok {
		return
	}
	response.OK(c, reg)
}

// Lookup handles GET /registrations/lookup?email=.
func (h *Handler) Lookup(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		response.BadRequest(c, "email is required")
		return
	}
	reg, err := h.store.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "registration not found")
			return
		}
		h.logger.Error("lookup registration failed", zap.Error(err))
		response.Internal(c, "failed to load registration")
		return
	}
	response.OK(c, reg)
}

// Stats handles GET /registrations/stats.
func (h *Handler) Stats(c *gin.Context) {
	s, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("registration stats failed", zap.Error(err))
		response.Internal(c, "failed to load stats")
		return
	}
	response.OK(c, s)
}

// Export handles GET /registrations/export.xlsx with the list filters.
func (h *Handler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	f := filterFromQuery(c)
	var all []models.AttendeeRegistration
	for offset := 0; offset < exportMaxRows; offset += MaxListLimit {
		page, err := h.store.List(ctx, f, MaxListLimit, offset)
		if err != nil {
			h.logger.Error("export list failed", zap.Error(err))
			response.Internal(c, "failed to export registrations")
			return
		}
		all = append(all, page...)
		if len(page) < MaxListLimit {
			break
		}
	}
	var buf bytes.Buffer
	if err := ExportXLSX(&buf, all); err != nil {
		h.logger.Error("export workbook failed", zap.Error(err))
		response.Internal(c, "failed to export registrations")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="registrations.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// QRImage handles GET /registrations/:id/qr.png.
func (h *Handler) QRImage(c *gin.Context) {
	reg, ok := h.loadByID(c)
	if !ok {
		return
	}
	if reg.QRCode == nil {
		response.NotFound(c, "qr code not available")
		return
	}
	png, err := qrcode.ParseDataURL(*reg.QRCode)
	if err != nil {
		h.logger.Error("stored qr code unreadable", zap.Error(err), zap.String("registration_id", reg.ID.String()))
		response.Internal(c, "failed to load qr code")
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

// PreviewSVG handles POST /registrations/qr.svg. Renders the code for the
// posted attendee fields without storing anything.
func (h *Handler) PreviewSVG(c *gin.Context) {
	var in Input
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	in = Normalize(in)
	if fields := Validate(in); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, FormResponse{Success: false, Message: MessageValidation, Errors: fields})
		return
	}
	size, err := intQuery(c, "size")
	if err != nil || size < 0 {
		response.BadRequest(c, "invalid size")
		return
	}
	payload, err := qrcode.EncodePayload(qrcode.Attendee{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
	}, h.svc.now())
	if err != nil {
		h.logger.Error("encode payload failed", zap.Error(err))
		response.Internal(c, "failed to render qr code")
		return
	}
	svg, err := h.svg.RenderSVG(payload, size)
	if err != nil {
		h.logger.Warn("render svg failed", zap.Error(err))
		response.Internal(c, "failed to render qr code")
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

func (h *Handler) loadByID(c *gin.Context) (*models.AttendeeRegistration, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return nil, false
	}
	reg, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "registration not found")
			return nil, false
		}
		h.logger.Error("get registration failed", zap.Error(err), zap.String("registration_id", id.String()))
		response.Internal(c, "failed to load registration")
		return nil, false
	}
	return reg, true
}

// RegisterRoutes mounts the registration endpoints on g.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("", h.Submit)
	g.GET("", h.List)
	g.GET("/stats", h.Stats)
	g.GET("/export.xlsx", h.Export)
	g.GET("/lookup", h.Lookup)
	g.POST("/qr.svg", h.PreviewSVG)
	g.GET("/:id", h.Get)
	g.GET("/:id/qr.png", h.QRImage)
}
