package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"

	"tortas-web/internal/metrics"
	"tortas-web/internal/models"
)

// Calls, used as metric labels and error ops.
const (
	CallLogin            = "login"
	CallRegister         = "register"
	CallListDishes       = "list_dishes"
	CallCreateDish       = "create_dish"
	CallDeleteDish       = "delete_dish"
	CallPushSubscription = "push_subscription"
)

const defaultLoginMessage = "Error al iniciar sesión"

type LoginResponse struct {
	UserID string `json:"userId" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Client talks to the remote dish service. It never retries and sets no
// timeout of its own; deadlines come from the caller's context.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
	metrics  *metrics.Metrics
}

func NewClient(baseURL string, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		validate: validator.New(),
		metrics:  m,
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	status, body, err := c.do(ctx, CallLogin, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, nil)
	if err == nil && !ok(status) {
		err = &AuthError{Message: serverMessage(body, defaultLoginMessage)}
	}
	if err == nil {
		err = c.decode(CallLogin, body, &out)
	}
	c.metrics.ObserveRemote(CallLogin, err)
	return out, err
}

// Register returns the service's message on success.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	status, body, err := c.do(ctx, CallRegister, http.MethodPost, "/register",
		registerRequest{Username: username, Email: email, Password: password}, nil)
	if err == nil && !ok(status) {
		msg := serverMessage(body, "")
		if status >= 400 && status < 500 {
			err = &ValidationError{Message: msg}
		} else {
			err = &ServerError{Status: status, Message: msg}
		}
	}
	var out messageResponse
	if err == nil && len(bytes.TrimSpace(body)) > 0 {
		err = c.decode(CallRegister, body, &out)
	}
	c.metrics.ObserveRemote(CallRegister, err)
	return out.Message, err
}

func (c *Client) ListDishes(ctx context.Context, userID string) ([]models.Dish, error) {
	status, body, err := c.do(ctx, CallListDishes, http.MethodGet, "/get_passwords", nil, map[string]string{"userId": userID})
	if err == nil && !ok(status) {
		err = &ServerError{Status: status, Message: serverMessage(body, "")}
	}
	var dishes []models.Dish
	if err == nil {
		err = c.decode(CallListDishes, body, &dishes)
	}
	c.metrics.ObserveRemote(CallListDishes, err)
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

// CreateDish posts a new dish. idempotencyKey may be empty.
func (c *Client) CreateDish(ctx context.Context, dish models.DishInput, userID, idempotencyKey string) (models.Dish, error) {
	dish.UserID = userID
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	status, body, err := c.do(ctx, CallCreateDish, http.MethodPost, "/post_cocina", dish, headers)
	if err == nil && !ok(status) {
		err = &ServerError{Status: status, Message: serverMessage(body, "")}
	}
	var created models.Dish
	if err == nil {
		err = c.decode(CallCreateDish, body, &created)
	}
	c.metrics.ObserveRemote(CallCreateDish, err)
	return created, err
}

func (c *Client) DeleteDish(ctx context.Context, id string) error {
	status, body, err := c.do(ctx, CallDeleteDish, http.MethodDelete, "/delete/"+url.PathEscape(id), nil, nil)
	if err == nil && !ok(status) {
		err = &ServerError{Status: status, Message: serverMessage(body, "")}
	}
	c.metrics.ObserveRemote(CallDeleteDish, err)
	return err
}

// SubmitPushSubscription makes a single attempt to store the descriptor.
func (c *Client) SubmitPushSubscription(ctx context.Context, desc models.PushSubscriptionDescriptor) (string, error) {
	status, body, err := c.do(ctx, CallPushSubscription, http.MethodPost, "/suscription", desc, nil)
	if err == nil && !ok(status) {
		err = &ServerError{Status: status, Message: serverMessage(body, http.StatusText(status))}
	}
	var out messageResponse
	if err == nil && len(bytes.TrimSpace(body)) > 0 {
		err = c.decode(CallPushSubscription, body, &out)
	}
	c.metrics.ObserveRemote(CallPushSubscription, err)
	return out.Message, err
}

func (c *Client) do(ctx context.Context, op, method, path string, payload any, headers map[string]string) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &NetworkError{Op: op, Err: err}
	}
	return resp.StatusCode, body, nil
}

func (c *Client) decode(op string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &SchemaError{Op: op, Err: err}
	}
	switch v := out.(type) {
	case *[]models.Dish:
		for i := range *v {
			if err := c.validate.Struct((*v)[i]); err != nil {
				return &SchemaError{Op: op, Err: fmt.Errorf("dish %d: %w", i, err)}
			}
		}
	default:
		if err := c.validate.Struct(out); err != nil {
			return &SchemaError{Op: op, Err: err}
		}
	}
	return nil
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

func serverMessage(body []byte, fallback string) string {
	var m messageResponse
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	return fallback
}
