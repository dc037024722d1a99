package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"coupon-portal/internal/client"
	"coupon-portal/internal/middleware"
	"coupon-portal/internal/models"
	"coupon-portal/web/templates/components"
	"coupon-portal/web/templates/pages"
)

// TemplatesPage lists the price templates with edit forms
func (h *AdminHandler) TemplatesPage(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r, "Coupon Templates")

	templates, err := h.templateService.List(r.Context())
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		page.Flashes = append(page.Flashes, components.Flash{
			Kind:    components.FlashError,
			Message: "Failed to load coupon templates.",
		})
	}

	h.render(w, r, http.StatusOK, pages.AdminTemplatesPage(pages.AdminTemplatesData{
		Page:  page,
		Table: components.TemplateTableData{Templates: templates},
	}))
}

// UpsertTemplate creates or updates one price. On success the refreshed list
// is rendered; on failure nothing is fetched and only the error is shown.
func (h *AdminHandler) UpsertTemplate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	meal := models.Meal(strings.TrimSpace(r.FormValue("coupon_type")))
	preference := models.Preference(strings.TrimSpace(r.FormValue("food_preference")))
	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil {
		price = 0
	}

	templates, err := h.templateService.Upsert(r.Context(), meal, preference, price)
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		h.templateFailure(w, r, err)
		return
	}

	success := components.Flash{Kind: components.FlashSuccess, Message: "Template saved."}
	if middleware.IsHTMXRequest(r) {
		h.render(w, r, http.StatusOK, components.TemplateTable(components.TemplateTableData{
			Templates: templates,
			CSRFToken: middleware.CSRFToken(r),
			Flashes:   []components.Flash{success},
		}))
		return
	}

	h.addFlash(w, r, success.Kind, success.Message)
	http.Redirect(w, r, "/admin/templates", http.StatusSeeOther)
}

func (h *AdminHandler) templateFailure(w http.ResponseWriter, r *http.Request, err error) {
	flash := components.Flash{Kind: components.FlashError}
	if errors.Is(err, models.ErrInvalidTemplate) {
		flash.Kind = components.FlashWarning
		flash.Message = "Please select a meal and a preference and enter a price above zero."
	} else {
		flash.Message = "Failed to save template. " + client.DetailOf(err, "Please try again.")
	}

	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Retarget", "#template-alerts")
		w.Header().Set("HX-Reswap", "innerHTML")
		h.render(w, r, http.StatusOK, components.Alerts([]components.Flash{flash}))
		return
	}

	h.addFlash(w, r, flash.Kind, flash.Message)
	http.Redirect(w, r, "/admin/templates", http.StatusSeeOther)
}
