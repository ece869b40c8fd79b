package handlers

import (
	"context"
	"errors"
	"net/http"

	"portfolio-site/internal/content"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/middleware"
	"portfolio-site/internal/models"
)

// MessagesHandler is the admin inbox
type MessagesHandler struct {
	inbox  *content.Inbox
	render *Renderer
	log    logging.Logger
}

func NewMessagesHandler(services *content.Services, render *Renderer, log logging.Logger) *MessagesHandler {
	return &MessagesHandler{inbox: services.Inbox, render: render, log: log}
}

type messagesView struct {
	Page     Page
	Messages *content.LoadState[[]models.Message]
	Filter   content.MessageFilter
	Visible  []models.Message
	Unread   int
}

// List handles GET /admin/messages?filter=all|unread|read.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	view := messagesView{
		Page:   newPage(r, "Messages", "messages"),
		Filter: content.ParseFilter(r.URL.Query().Get("filter")),
	}
	if r.URL.Query().Get("deleted") != "" {
		view.Page.Notice = "Message deleted successfully!"
	}
	status := h.fill(r, &view)
	if expired(w, r, view.Messages.Err()) {
		return
	}
	h.render.Render(w, r, status, "admin_messages", view)
}

// MarkRead handles POST /admin/messages/{id}/read.
func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.inbox.MarkRead(ctx, middleware.SessionFromContext(ctx), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/messages?filter="+string(h.returnFilter(r)), http.StatusSeeOther)
}

// ConfirmDelete handles GET /admin/messages/{id}/delete.
func (h *MessagesHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.render.Render(w, r, http.StatusOK, "confirm_delete", confirmView{
		Page:   newPage(r, "Delete Message", "messages"),
		Kind:   "message",
		Name:   "this message",
		Action: "/admin/messages/" + id + "/delete",
		Cancel: "/admin/messages",
	})
}

// Delete handles POST /admin/messages/{id}/delete.
func (h *MessagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := parseForm(r); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	err := h.inbox.Delete(ctx, middleware.SessionFromContext(ctx), id, confirmed(r))
	switch {
	case err == nil:
		h.log.Info(ctx, "message deleted", "message_id", id)
		http.Redirect(w, r, "/admin/messages?deleted=1", http.StatusSeeOther)
	case errors.Is(err, content.ErrNotConfirmed):
		http.Redirect(w, r, "/admin/messages", http.StatusSeeOther)
	default:
		h.fail(w, r, err)
	}
}

// fill loads the inbox into view and returns the page status.
func (h *MessagesHandler) fill(r *http.Request, view *messagesView) int {
	s := middleware.SessionFromContext(r.Context())
	view.Messages = content.Load(r.Context(), func(ctx context.Context) ([]models.Message, error) {
		return h.inbox.List(ctx, s)
	})
	if view.Messages.Loaded() {
		all := view.Messages.Data()
		view.Visible = content.FilterMessages(all, view.Filter)
		view.Unread = content.UnreadCount(all)
	}
	return loadStatus(view.Messages.Err())
}

func (h *MessagesHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if expired(w, r, err) {
		return
	}
	h.log.Warn(r.Context(), "message action failed", "error", err)
	view := messagesView{Page: newPage(r, "Messages", "messages"), Filter: content.FilterAll}
	view.Page.Error = message(err)
	status := h.fill(r, &view)
	if status == http.StatusOK {
		status = statusFor(err)
	}
	h.render.Render(w, r, status, "admin_messages", view)
}

func (h *MessagesHandler) returnFilter(r *http.Request) content.MessageFilter {
	return content.ParseFilter(r.URL.Query().Get("filter"))
}
