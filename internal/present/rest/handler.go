package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driftpad/driftpad"
	"github.com/driftpad/driftpad/internal/config"
	"github.com/driftpad/driftpad/internal/domain"
	"github.com/driftpad/driftpad/internal/service"
	"github.com/driftpad/driftpad/internal/usecase"
)

type Handler struct {
	config    config.Config
	bootstrap *usecase.BootstrapUsecase
	welcome   *usecase.WelcomeUsecase
	sessions  *service.SessionService
}

func NewHandler(
	config config.Config,
	bootstrap *usecase.BootstrapUsecase,
	welcome *usecase.WelcomeUsecase,
	sessions *service.SessionService,
) *Handler {
	return &Handler{
		config:    config,
		bootstrap: bootstrap,
		welcome:   welcome,
		sessions:  sessions,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.handleRoot)
}

func (h *Handler) handleRoot(c echo.Context) error {
	ctx := c.Request().Context()

	address, _ := ctx.Value(domain.RequesterAddressCtxKey).(string)
	if address == "" {
		return h.handleBootstrap(c)
	}
	return h.renderClient(c, address)
}

// handleBootstrap provisions a first-time visitor: identity from the trusted
// proxy headers, a local account, membership in the welcome document, then a
// session and a redirect into that document. The first failing step aborts
// the request.
func (h *Handler) handleBootstrap(c echo.Context) error {
	ctx := c.Request().Context()

	username := c.Request().Header.Get(h.config.Proxy.UsernameHeader)
	userID := c.Request().Header.Get(h.config.Proxy.UserIDHeader)

	id, err := h.bootstrap.Resolve(ctx, driftpad.ParticipantID{}, username, userID)
	if err != nil {
		return h.fail(c, err)
	}

	documentID, err := h.welcome.Attach(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}

	token, err := h.sessions.Issue(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Raw Location header instead of a redirect helper: helpers resolve the
	// target against the request URL and can rewrite https to http behind
	// the proxy.
	c.Response().Header().Set(echo.HeaderLocation, "/#"+documentID)
	return c.NoContent(http.StatusFound)
}

func (h *Handler) renderClient(c echo.Context, address string) error {
	ctx := c.Request().Context()

	id, err := driftpad.ParseParticipantID(address)
	if err != nil {
		return h.fail(c, domain.ErrInvalidIdentity)
	}

	account, err := h.bootstrap.Lookup(ctx, address)
	if err == nil && account.Locale != "" && c.QueryParam("locale") == "" {
		query := c.Request().URL.Query()
		query.Set("locale", account.Locale)
		target := *c.Request().URL
		target.RawQuery = query.Encode()
		return c.Redirect(http.StatusFound, target.String())
	}

	sessionJSON, err := json.Marshal(sessionInfo{
		Domain:  h.config.NodeInfo.FQDN,
		Address: address,
		IDSeed:  driftpad.RandomBase64(10),
	})
	if err != nil {
		return h.fail(c, err)
	}
	flagsJSON, err := json.Marshal(buildClientFlags(c.QueryParams()))
	if err != nil {
		return h.fail(c, err)
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Name:             id.Name(),
		Domain:           id.Domain(),
		SessionJSON:      template.JS(sessionJSON),
		FlagsJSON:        template.JS(flagsJSON),
		WebsocketAddress: h.config.NodeInfo.WebsocketPresentedAddress,
		AnalyticsAccount: h.config.NodeInfo.AnalyticsAccount,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// fail maps every bootstrap failure to a uniform 500 with a terse message.
// The cause is distinguishable for operators in the log and the message text,
// without leaking internals to unauthenticated callers.
func (h *Handler) fail(c echo.Context, err error) error {
	slog.Error("bootstrap request failed",
		slog.String("path", c.Request().URL.Path),
		slog.String("cause", err.Error()),
	)
	return c.String(http.StatusInternalServerError, operatorMessage(err))
}

func operatorMessage(err error) string {
	var storageErr domain.StorageError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "You must be logged into the host environment to use this server."
	case errors.Is(err, domain.ErrInvalidIdentity):
		return "Failed to derive a valid participant address from the host username."
	case errors.Is(err, domain.ErrAgentAccountMissing):
		return "Welcome agent account is missing or misconfigured."
	case errors.As(err, &storageErr):
		switch storageErr.Op {
		case "pointer read", "pointer write":
			return "Failed to persist welcome document id."
		default:
			return "Failed to create account for new user."
		}
	case errors.Is(err, domain.RPCError{}):
		return "Document service call failed."
	default:
		return "Internal server error."
	}
}
