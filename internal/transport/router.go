package transport

import (
	"net/http"

	"fishmart-be/internal/access"

	"github.com/gorilla/mux"
)

// requires rejects callers lacking c before the handler parses any input.
// The services check again against the same actor.
func requires(c access.Capability, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := access.Require(r.Context(), c); err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r)
	}
}

// signedIn is requires for routes open to every role.
func signedIn(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := access.Authenticated(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r)
	}
}

// NewRouter registers every route. mws run on matched /api routes only;
// wrappers that must also see preflight or unmatched requests (CORS, request
// id, access log) go around the returned router.
func NewRouter(h *Handler, mws ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mws...)

	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", requires(access.ManageCatalog, h.createProduct)).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", requires(access.ManageCatalog, h.updateProduct)).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", requires(access.ManageCatalog, h.deleteProduct)).Methods(http.MethodDelete)

	api.HandleFunc("/shop/status", h.shopStatus).Methods(http.MethodGet)
	api.HandleFunc("/shop/status", requires(access.ManageShop, h.setShopStatus)).Methods(http.MethodPut)

	// fixed order paths first so they are not taken for an {id}
	api.HandleFunc("/orders", requires(access.PlaceOrder, h.placeOrder)).Methods(http.MethodPost)
	api.HandleFunc("/orders/myorders", signedIn(h.myOrders)).Methods(http.MethodGet)
	api.HandleFunc("/orders/admin", requires(access.ViewAllOrders, h.allOrders)).Methods(http.MethodGet)
	api.HandleFunc("/orders/admin/packing-list", requires(access.ViewAllOrders, h.packingList)).Methods(http.MethodGet)
	api.HandleFunc("/orders/assigned", requires(access.ViewAssignedOrders, h.assignedOrders)).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", signedIn(h.getOrder)).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/status", signedIn(h.updateOrderStatus)).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id}/assign", requires(access.AssignPartner, h.assignPartner)).Methods(http.MethodPut)

	api.HandleFunc("/users", requires(access.ManageUsers, h.listUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/approve", requires(access.ManageUsers, h.approveUser)).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}/reject", requires(access.ManageUsers, h.rejectUser)).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", requires(access.ManageUsers, h.deleteUser)).Methods(http.MethodDelete)

	api.HandleFunc("/admin/stats", requires(access.ViewAllOrders, h.stats)).Methods(http.MethodGet)

	return r
}
