package transport

import (
	"context"
	"fmt"
	"net/http"

	"fishmart-be/internal/access"
	"fishmart-be/internal/dashboard"
	"fishmart-be/internal/order"
	"fishmart-be/internal/product"
	"fishmart-be/internal/shop"
	"fishmart-be/internal/user"
	"fishmart-be/internal/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Handler exposes the services over JSON. It holds no state of its own.
// Authorization is decided from the actor AuthMiddleware put on the request
// context: coarsely per route in NewRouter, then fully by the services.
type Handler struct {
	Products  product.Service
	Shop      shop.Service
	Orders    order.Service
	Users     user.Service
	Dashboard dashboard.Service
}

func NewHandler(
	products product.Service,
	shopSvc shop.Service,
	orders order.Service,
	users user.Service,
	dash dashboard.Service,
) *Handler {
	return &Handler{
		Products:  products,
		Shop:      shopSvc,
		Orders:    orders,
		Users:     users,
		Dashboard: dash,
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := utils.ParseUUID(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return id, nil
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// --- Catalog ---

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var category *product.Category
	if c := utils.QueryParam(r, "category"); c != nil {
		cat := product.Category(*c)
		category = &cat
	}

	products, err := h.Products.List(r.Context(), category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in product.NewProduct
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Products.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in product.UpdateProduct
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Products.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Products.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// --- Shop gate ---

func (h *Handler) shopStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Shop.Status(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, st)
}

type setShopRequest struct {
	IsOpen *bool `json:"isOpen"`
}

// setShopStatus accepts only a JSON boolean; strings such as "true" are
// rejected by the decoder.
func (h *Handler) setShopStatus(w http.ResponseWriter, r *http.Request) {
	var in setShopRequest
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.IsOpen == nil {
		writeError(w, r, fmt.Errorf("%w: isOpen must be a boolean", errBadRequest))
		return
	}

	st, err := h.Shop.SetOpen(r.Context(), *in.IsOpen)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, st)
}

// --- Orders ---

type placeOrderRequest struct {
	Items []order.LineRequest `json:"items"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var in placeOrderRequest
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.Orders.PlaceOrder(r.Context(), in.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListMine(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func statusFilter(r *http.Request) (*order.Status, error) {
	s := utils.QueryParam(r, "status")
	if s == nil {
		return nil, nil
	}
	st, err := order.ParseStatus(*s)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (h *Handler) allOrders(w http.ResponseWriter, r *http.Request) {
	status, err := statusFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := h.Orders.ListAll(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) assignedOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListAssigned(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) packingList(w http.ResponseWriter, r *http.Request) {
	status, err := statusFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pl, err := h.Orders.PackingList(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, pl)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in updateStatusRequest
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), id, in.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

type assignRequest struct {
	PartnerID string `json:"partnerId"`
}

func (h *Handler) assignPartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in assignRequest
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	partnerID := uuid.Nil
	if in.PartnerID != "" {
		if partnerID, err = utils.ParseUUID(in.PartnerID); err != nil {
			writeError(w, r, order.ErrInvalidPartner)
			return
		}
	}

	o, err := h.Orders.AssignPartner(r.Context(), id, partnerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

// --- Users ---

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	var filter user.ListFilter
	if v := utils.QueryParam(r, "role"); v != nil {
		role := access.Role(*v)
		filter.Role = &role
	}
	if v := utils.QueryParam(r, "status"); v != nil {
		st := user.Status(*v)
		filter.Status = &st
	}

	users, err := h.Users.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) approveUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, h.Users.Approve)
}

func (h *Handler) rejectUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, h.Users.Reject)
}

func (h *Handler) setUserStatus(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id uuid.UUID) (user.User, error),
) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := apply(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// --- Admin ---

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.Dashboard.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}
