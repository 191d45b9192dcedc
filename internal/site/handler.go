package site

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"terrapulse/internal/httpx"
	"terrapulse/internal/middleware"
	"terrapulse/internal/transport"
)

type Handler struct {
	content *Content
	log     *slog.Logger
}

func NewHandler(content *Content, log *slog.Logger) *Handler {
	return &Handler{content: content, log: log}
}

type NavigationResponse struct {
	Brand      Brand     `json:"brand"`
	Navigation []NavItem `json:"navigation"`
	Footer     Footer    `json:"footer"`
}

func (h *Handler) Navigation(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, NavigationResponse{
		Brand:      h.content.Brand,
		Navigation: h.content.Navigation,
		Footer:     h.content.Footer,
	})
}

// ResolveRoute answers ?path= with the view it renders.
func (h *Handler) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	path := r.URL.Query().Get("path")
	if strings.TrimSpace(path) == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing path", nil)
		return
	}
	view, ok := Resolve(path)
	if !ok {
		log.Info("site route: unknown path", slog.String("path", path))
		transport.WriteError(w, http.StatusNotFound, "unknown path", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"path": path,
		"view": string(view),
	})
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, h.content.Home)
}

func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, h.content.About)
}

func (h *Handler) Marketplace(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	view, err := h.content.MarketplaceFor(r.URL.Query().Get("timeframe"))
	if err != nil {
		if errors.Is(err, ErrUnknownTimeframe) {
			log.Warn("site marketplace: unknown timeframe", slog.String("timeframe", r.URL.Query().Get("timeframe")))
			transport.WriteError(w, http.StatusBadRequest, "unknown timeframe", map[string]string{
				"timeframe": strings.Join(h.content.Marketplace.Timeframes, ","),
			})
			return
		}
		log.Error("site marketplace: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "marketplace error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) WalletOptions(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"wallets": h.content.Wallets,
	})
}

type walletConnectRequest struct {
	Wallet string `json:"wallet"`
}

// WalletConnect never connects anything; it reports which wallets are offered.
func (h *Handler) WalletConnect(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	var req walletConnectRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	err := h.content.ConnectWallet(req.Wallet)
	switch {
	case errors.Is(err, ErrUnknownWallet):
		log.Warn("wallet connect: unknown wallet", slog.String("wallet", req.Wallet))
		transport.WriteError(w, http.StatusBadRequest, "unknown wallet", nil)
	case errors.Is(err, ErrWalletNotImplemented):
		log.Info("wallet connect: not implemented", slog.String("wallet", req.Wallet))
		transport.WriteError(w, http.StatusNotImplemented, "wallet connection is not available yet", nil)
	default:
		log.Error("wallet connect: unexpected result", slog.Any("error", err))
		transport.WriteError(w, http.StatusInternalServerError, "wallet error", nil)
	}
}
