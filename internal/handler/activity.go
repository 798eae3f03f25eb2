package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/scoutreport/activityform/internal/flash"
	"github.com/scoutreport/activityform/internal/middleware"
	"github.com/scoutreport/activityform/internal/model"
	"github.com/scoutreport/activityform/internal/repository"
	"github.com/scoutreport/activityform/internal/service"
	"github.com/scoutreport/activityform/internal/service/notify"
	"github.com/scoutreport/activityform/internal/ui"
	"github.com/scoutreport/activityform/internal/validation"
)

const (
	msgNoParagraphs = "At least one paragraph is required."
	msgInvalidDate  = "Please enter the date as YYYY-MM-DD."
	msgSubmitted    = "Activity submitted."
	msgSubmitFailed = "The activity could not be saved. Please try again."
	msgNotFound     = "Activity not found."
	msgUpdated      = "Activity updated."
	msgUpdateFailed = "The changes could not be saved. Please try again."
	msgDeleted      = "Activity deleted."
	msgDeleteFailed = "The activity could not be deleted."
	msgBadForm      = "The form could not be read. Uploads may be too large."
)

type ActivityHandler struct {
	activities  *service.ActivityService
	attachments *service.AttachmentService
	flash       *flash.Store
}

func NewActivityHandler(activities *service.ActivityService, attachments *service.AttachmentService, flash *flash.Store) *ActivityHandler {
	return &ActivityHandler{
		activities:  activities,
		attachments: attachments,
		flash:       flash,
	}
}

func (h *ActivityHandler) FormPage(w http.ResponseWriter, r *http.Request) {
	groups, err := h.activities.Groups()
	if err != nil {
		slog.Error("failed to load groups", "error", err)
	}

	ui.Render(w, r, ui.FormPage(ui.FormView{
		Fields: ui.Fields{
			Date:   h.activities.Today(),
			Groups: groups,
		},
	}))
}

func (h *ActivityHandler) Submit(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		slog.Warn("failed to parse submission", "error", err)
		h.flash.Error(w, msgBadForm)
		redirect(w, r, "/")
		return
	}

	files := uploadedFiles(r)

	activity, err := h.activities.Submit(activityInput(r), files)
	if errors.Is(err, service.ErrNoParagraphs) {
		h.flash.Error(w, msgNoParagraphs)
		redirect(w, r, "/")
		return
	}
	if errors.Is(err, service.ErrInvalidDate) {
		h.flash.Error(w, msgInvalidDate)
		redirect(w, r, "/")
		return
	}
	if err != nil {
		slog.Error("failed to submit activity", "error", err)
		h.flash.Error(w, msgSubmitFailed)
		redirect(w, r, "/")
		return
	}

	slog.Info("activity submitted", "activity_id", activity.ID, "group", activity.GroupName, "files", len(files))
	h.flash.Success(w, msgSubmitted)
	redirect(w, r, "/")
}

// List serves both the plain listing and filter submissions; filters come
// from the query string or the posted form.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, view := listFilter(r)

	activities, err := h.activities.List(filter)
	if err != nil {
		slog.Error("failed to list activities", "error", err)
		http.Error(w, "Failed to load activities", http.StatusInternalServerError)
		return
	}

	groups, err := h.activities.Groups()
	if err != nil {
		slog.Error("failed to load groups", "error", err)
	}

	ui.Render(w, r, ui.ActivitiesPage(ui.ListView{
		Activities: activities,
		Groups:     groups,
		Filter:     view,
	}))
}

// EditPage renders the edit form. Opening a reviewed activity marks it as
// edited.
func (h *ActivityHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.flash.Error(w, msgNotFound)
		redirect(w, r, "/activities")
		return
	}

	activity, err := h.activities.OpenForEdit(id)
	if errors.Is(err, repository.ErrActivityNotFound) {
		h.flash.Error(w, msgNotFound)
		redirect(w, r, "/activities")
		return
	}
	if err != nil {
		slog.Error("failed to open activity for edit", "error", err, "activity_id", id)
		http.Error(w, "Failed to load activity", http.StatusInternalServerError)
		return
	}

	groups, err := h.activities.Groups()
	if err != nil {
		slog.Error("failed to load groups", "error", err)
	}

	ui.Render(w, r, ui.EditPage(ui.EditView{
		ID:          id,
		Fields:      ui.FieldsFrom(activity, groups),
		Attachments: h.attachmentLinks(id),
	}))
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.flash.Error(w, msgNotFound)
		redirect(w, r, "/activities")
		return
	}
	back := fmt.Sprintf("/edit/%d", id)

	err := parseForm(r)
	if err != nil {
		slog.Warn("failed to parse edit form", "error", err, "activity_id", id)
		h.flash.Error(w, msgBadForm)
		redirect(w, r, back)
		return
	}

	err = h.activities.Update(id, activityInput(r))
	switch {
	case errors.Is(err, service.ErrNoParagraphs):
		h.flash.Error(w, msgNoParagraphs)
		redirect(w, r, back)
	case errors.Is(err, service.ErrInvalidDate):
		h.flash.Error(w, msgInvalidDate)
		redirect(w, r, back)
	case errors.Is(err, repository.ErrActivityNotFound):
		h.flash.Error(w, msgNotFound)
		redirect(w, r, "/activities")
	case err != nil:
		slog.Error("failed to update activity", "error", err, "activity_id", id)
		h.flash.Error(w, msgUpdateFailed)
		redirect(w, r, back)
	default:
		h.flash.Success(w, msgUpdated)
		redirect(w, r, "/activities")
	}
}

// Delete never checks that the activity exists.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}

	err := h.activities.Delete(id)
	if err != nil {
		slog.Error("failed to delete activity", "error", err, "activity_id", id)
		h.flash.Error(w, msgDeleteFailed)
		redirect(w, r, "/activities")
		return
	}

	h.flash.Success(w, msgDeleted)
	redirect(w, r, "/activities")
}

type toggleResponse struct {
	Success bool                `json:"success"`
	Checked *model.CheckedState `json:"checked,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func (h *ActivityHandler) ToggleChecked(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, toggleResponse{Error: "not found"})
		return
	}

	state, err := h.activities.ToggleChecked(id)
	if errors.Is(err, repository.ErrActivityNotFound) {
		writeJSON(w, http.StatusNotFound, toggleResponse{Error: "not found"})
		return
	}
	if err != nil {
		slog.Error("failed to toggle review state", "error", err, "activity_id", id)
		writeJSON(w, http.StatusInternalServerError, toggleResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{Success: true, Checked: &state})
}

func (h *ActivityHandler) attachmentLinks(id int64) []ui.AttachmentLink {
	attachments, err := h.attachments.ByActivity(id)
	if err != nil {
		slog.Error("failed to load attachments", "error", err, "activity_id", id)
		return nil
	}

	links := make([]ui.AttachmentLink, 0, len(attachments))
	for _, a := range attachments {
		links = append(links, ui.AttachmentLink{Name: a.OriginalName, URL: h.attachments.URL(a)})
	}
	return links
}

// parseForm is a no-op once CSRFProtection has parsed the body.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(middleware.MultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func activityInput(r *http.Request) service.ActivityInput {
	return service.ActivityInput{
		Date:         r.FormValue("date"),
		Group:        r.FormValue("group"),
		ActivityType: r.FormValue("activity_type"),
		Place:        r.FormValue("place"),
		TimeOfDay:    r.FormValue("time"),
		Occasion:     r.FormValue("occasion"),
		Cost:         formInt(r, "cost"),
		Leaders:      formInt(r, "leaders"),
		Cubs:         formInt(r, "cubs"),
		Scouts:       formInt(r, "scouts"),
		Rovers:       formInt(r, "rovers"),
		NonScouts:    formInt(r, "non_scouts"),
		Paragraphs:   r.Form["paragraphs[]"],
	}
}

// formInt reads an integer field; missing or malformed values are 0.
func formInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	if err != nil {
		return 0
	}
	return n
}

// uploadedFiles buffers every acceptable upload. Rejected files are
// logged and skipped.
func uploadedFiles(r *http.Request) []notify.File {
	if r.MultipartForm == nil {
		return nil
	}

	var files []notify.File
	for _, header := range r.MultipartForm.File["files[]"] {
		if header.Filename == "" {
			continue
		}

		contentType, err := validation.ValidateFile(header, validation.AttachmentConstraints...)
		if err != nil {
			slog.Warn("skipping attachment", "error", err, "filename", header.Filename)
			continue
		}

		data, err := readUpload(header)
		if err != nil {
			slog.Error("failed to read attachment", "error", err, "filename", header.Filename)
			continue
		}

		files = append(files, notify.File{Name: header.Filename, ContentType: contentType, Data: data})
	}

	return files
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return io.ReadAll(file)
}

func listFilter(r *http.Request) (repository.ActivityFilter, ui.ListFilter) {
	view := ui.ListFilter{
		Start:  dateBound(r, "start"),
		End:    dateBound(r, "end"),
		Group:  r.FormValue("group"),
		Query:  r.FormValue("q"),
		Status: r.FormValue("status"),
	}

	filter := repository.ActivityFilter{
		Start: view.Start,
		End:   view.End,
		Group: view.Group,
		Query: view.Query,
	}

	if state, ok := model.ParseCheckedState(view.Status); ok {
		filter.Status = &state
		view.Status = state.String()
	} else {
		view.Status = ""
	}

	return filter, view
}

// dateBound reads a YYYY-MM-DD filter bound. Malformed bounds are dropped
// since dates are compared as text.
func dateBound(r *http.Request, key string) string {
	date := strings.TrimSpace(r.FormValue(key))
	if validation.ValidateDate(date) != nil {
		slog.Debug("ignoring malformed date filter", key, date)
		return ""
	}
	return date
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to write json response", "error", err)
	}
}
