package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smartBite/internal/modules/booking/domain"
	reservations "smartBite/internal/modules/reservations/domain"
)

// ReservationHTTPClient talks to the reservation API on behalf of the booking wizard.
type ReservationHTTPClient struct {
	rest  *RESTClient
	token string
}

var _ domain.Submitter = (*ReservationHTTPClient)(nil)

func NewReservationHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *ReservationHTTPClient {
	return &ReservationHTTPClient{rest: NewRESTClient(baseURL, timeout, client)}
}

// WithToken returns a copy that authenticates requests with a bearer token.
func (c *ReservationHTTPClient) WithToken(token string) *ReservationHTTPClient {
	clone := *c
	clone.token = strings.TrimSpace(token)
	return &clone
}

// Submit posts the reservation and returns the created record.
func (c *ReservationHTTPClient) Submit(ctx context.Context, cmd reservations.CreateReservationCommand) (*reservations.Reservation, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode reservation: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/reservations", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created reservations.Reservation
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Availability fetches the slots for a calendar day.
func (c *ReservationHTTPClient) Availability(ctx context.Context, date string) ([]reservations.TimeSlot, error) {
	values := url.Values{}
	values.Set("date", strings.TrimSpace(date))
	req, err := c.newRequest(ctx, http.MethodGet, "/availability?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Date  string                  `json:"date"`
		Slots []reservations.TimeSlot `json:"slots"`
	}
	if err := c.do(req, http.StatusOK, &body); err != nil {
		return nil, err
	}
	return body.Slots, nil
}

func (c *ReservationHTTPClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := c.rest.NewRequest(ctx, method, endpoint, body)
	if err != nil {
		slog.Error("reservation api request build failed", slog.String("path", endpoint), slog.Any("error", err))
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *ReservationHTTPClient) do(req *http.Request, want int, out any) error {
	slog.Debug("reservation api request", slog.String("method", req.Method), slog.String("url", req.URL.String()))
	res, err := c.rest.Do(req)
	if err != nil {
		return fmt.Errorf("reservation api request failed: %w", err)
	}
	defer res.Body.Close()
	slog.Debug("reservation api response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))

	if res.StatusCode != want {
		return decodeAPIError(res)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode reservation api response: %w", err)
	}
	return nil
}

type apiErrorBody struct {
	Error   string                    `json:"error"`
	Details []reservations.FieldError `json:"details"`
}

// decodeAPIError maps API status codes back onto the reservation domain errors.
func decodeAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 8192))
	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err != nil || strings.TrimSpace(body.Error) == "" {
		body.Error = strings.TrimSpace(string(raw))
	}

	switch res.StatusCode {
	case http.StatusBadRequest:
		if len(body.Details) > 0 {
			return reservations.FieldErrors(body.Details)
		}
		return fmt.Errorf("%w: %s", reservations.ErrValidation, body.Error)
	case http.StatusUnauthorized:
		return reservations.ErrUnauthorized
	case http.StatusForbidden:
		return reservations.ErrForbidden
	case http.StatusNotFound:
		return reservations.ErrNotFound
	case http.StatusConflict:
		if strings.Contains(body.Error, "fully booked") {
			return reservations.ErrSlotFull
		}
		return fmt.Errorf("%w: %s", reservations.ErrConflict, body.Error)
	default:
		slog.Error("reservation api unexpected status", slog.Int("status", res.StatusCode), slog.String("body", body.Error))
		return errors.Join(reservations.ErrInternal, fmt.Errorf("unexpected reservation api response %d", res.StatusCode))
	}
}
