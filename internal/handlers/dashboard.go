package handlers

import (
	"net/http"

	"coupon-portal/web/templates/components"
	"coupon-portal/web/templates/pages"
)

// DashboardPage shows the aggregate statistics
func (h *AdminHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		page := h.page(w, r, "Dashboard")
		page.Flashes = append(page.Flashes, components.Flash{
			Kind:    components.FlashError,
			Message: "Unable to load dashboard statistics.",
		})
		h.render(w, r, http.StatusOK, pages.AdminDashboardPage(page, nil))
		return
	}

	h.render(w, r, http.StatusOK, pages.AdminDashboardPage(h.page(w, r, "Dashboard"), stats))
}
