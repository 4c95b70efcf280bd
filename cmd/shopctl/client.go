package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fishmart-be/internal/cart"
	"fishmart-be/internal/order"
	"fishmart-be/internal/product"
	"fishmart-be/internal/shop"
)

type client struct {
	base  string
	token string
	http  *http.Client
}

func newClient(base, token string) *client {
	return &client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 15 * time.Second},
	}
}

// apiError carries the server's {"message": ...} body.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return &apiError{Status: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) Products(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	err := c.do(ctx, http.MethodGet, "/api/products", nil, &products)
	return products, err
}

func (c *client) ShopStatus(ctx context.Context) (shop.Status, error) {
	var st shop.Status
	err := c.do(ctx, http.MethodGet, "/api/shop/status", nil, &st)
	return st, err
}

func (c *client) PlaceOrder(ctx context.Context, lines []order.LineRequest) (order.Order, error) {
	var o order.Order
	err := c.do(ctx, http.MethodPost, "/api/orders", map[string]any{"items": lines}, &o)
	return o, err
}

var errBadItem = errors.New("item must look like name:qty[:preparation]")

func parseItem(s string) (string, int, order.Preparation, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", 0, "", fmt.Errorf("%w: %q", errBadItem, s)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", 0, "", fmt.Errorf("%w: %q", errBadItem, s)
	}

	prep := order.PreparationWhole
	if len(parts) == 3 {
		prep = order.Preparation(strings.TrimSpace(parts[2]))
	}
	return strings.TrimSpace(parts[0]), qty, prep, nil
}

// buildCart snapshots prices from the first available catalog entry for
// each requested fish.
func buildCart(items []string, catalog []product.Product) (*cart.Cart, error) {
	prices := make(map[string]product.Product, len(catalog))
	for _, p := range catalog {
		if p.Status != product.StatusAvailable {
			continue
		}
		if _, ok := prices[p.FishName]; !ok {
			prices[p.FishName] = p
		}
	}

	c := cart.New()
	for _, item := range items {
		name, qty, prep, err := parseItem(item)
		if err != nil {
			return nil, err
		}
		p, ok := prices[name]
		if !ok {
			return nil, fmt.Errorf("%s is not available", name)
		}
		if err := c.Add(name, qty, prep, p.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", item, err)
		}
	}
	return c, nil
}
